package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"timberbid/internal/models"
	"timberbid/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Transactions are a pass-through; the services under test only need the
// data semantics, not the locking.
type stubRepo struct {
	auctions      map[string]*models.Auction
	bids          []models.Bid
	notifications []models.Notification
}

func newStubRepo() *stubRepo {
	return &stubRepo{auctions: map[string]*models.Auction{}}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func (s *stubRepo) CreateAuction(ctx context.Context, item *models.Auction) error {
	cp := *item
	s.auctions[item.ID] = &cp
	return nil
}

func (s *stubRepo) GetAuction(ctx context.Context, id string) (*models.Auction, error) {
	auc, ok := s.auctions[id]
	if !ok {
		return nil, nil
	}
	cp := *auc
	return &cp, nil
}

func (s *stubRepo) GetAuctionForUpdateTx(ctx context.Context, tx *gorm.DB, id string) (*models.Auction, error) {
	return s.GetAuction(ctx, id)
}

func (s *stubRepo) SaveAuctionTx(ctx context.Context, tx *gorm.DB, item *models.Auction) error {
	cp := *item
	s.auctions[item.ID] = &cp
	return nil
}

func (s *stubRepo) UpdateAuctionStatus(ctx context.Context, id string, from string, to string) (bool, error) {
	auc, ok := s.auctions[id]
	if !ok || auc.Status != from {
		return false, nil
	}
	auc.Status = to
	return true, nil
}

func (s *stubRepo) ListAuctions(ctx context.Context, params repository.ListAuctionsParams) ([]models.Auction, error) {
	var out []models.Auction
	for _, auc := range s.auctions {
		out = append(out, *auc)
	}
	return out, nil
}

func (s *stubRepo) CountAuctions(ctx context.Context, params repository.ListAuctionsParams) (int64, error) {
	return int64(len(s.auctions)), nil
}

func (s *stubRepo) ListAuctionsByStatuses(ctx context.Context, statuses []string, limit int) ([]models.Auction, error) {
	var out []models.Auction
	for _, auc := range s.auctions {
		for _, status := range statuses {
			if auc.Status == status {
				out = append(out, *auc)
				break
			}
		}
	}
	return out, nil
}

func (s *stubRepo) ListAuctionsEndingWithin(ctx context.Context, now time.Time, window time.Duration) ([]models.Auction, error) {
	var out []models.Auction
	for _, auc := range s.auctions {
		if auc.Status != "active" {
			continue
		}
		if auc.EndTime.After(now) && !auc.EndTime.After(now.Add(window)) {
			out = append(out, *auc)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertBidTx(ctx context.Context, tx *gorm.DB, item *models.Bid) error {
	s.bids = append(s.bids, *item)
	return nil
}

func (s *stubRepo) ListBidderBidsTx(ctx context.Context, tx *gorm.DB, auctionID, bidderID string) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.BidderID == bidderID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) ListBidsByAuction(ctx context.Context, auctionID string, limit, offset int) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) DistinctBidderIDs(ctx context.Context, auctionID string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, b := range s.bids {
		if b.AuctionID == auctionID && !seen[b.BidderID] {
			seen[b.BidderID] = true
			out = append(out, b.BidderID)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertNotification(ctx context.Context, item *models.Notification) error {
	s.notifications = append(s.notifications, *item)
	return nil
}

func (s *stubRepo) ListNotifications(ctx context.Context, params repository.ListNotificationsParams) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == params.UserID && (!params.UnreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubRepo) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var total int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			total++
		}
	}
	return total, nil
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, id string, userID string) (bool, error) {
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) HasNotification(ctx context.Context, userID, auctionID, notificationType string) (bool, error) {
	for _, n := range s.notifications {
		if n.UserID == userID && n.AuctionID == auctionID && n.Type == notificationType {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) countNotifications(userID, typ string) int {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && n.Type == typ {
			count++
		}
	}
	return count
}
