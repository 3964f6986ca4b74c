package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"timberbid/internal/engine"
	"timberbid/internal/models"
	"timberbid/internal/realtime"
	"timberbid/internal/repository"
)

var ErrAuctionNotFound = errors.New("auction not found")

// BidResult is what an accepted bid leaves behind: the updated auction, the
// recorded bid row, and whether the close was pushed out.
type BidResult struct {
	Auction  *models.Auction
	Bid      *models.Bid
	Outcome  *engine.Outcome
	Extended bool
}

// BidService runs the full inbound-bid pipeline: validate → activity check →
// resolve → soft-close evaluate, all inside one row-locked transaction so
// concurrent bids on the same auction serialize. Engine rejections come back
// as *engine.Rejection via errors.As.
type BidService struct {
	Repo   repository.Repository
	Hub    *realtime.Hub
	Logger *zap.Logger

	// Now is swappable for tests; defaults to UTC wall clock.
	Now func() time.Time
}

func (s *BidService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *BidService) PlaceBid(ctx context.Context, auctionID string, req engine.BidRequest) (*BidResult, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("bid service not configured")
	}
	now := s.now()

	var (
		result     BidResult
		prevLeader *string
	)
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		auc, err := s.Repo.GetAuctionForUpdateTx(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if auc == nil {
			return ErrAuctionNotFound
		}
		snap := auc.ClearingSnapshot()
		prevLeader = snap.CurrentBidderID

		if rej := engine.ValidateBid(snap, req, now); rej != nil {
			return rej
		}
		history, err := s.Repo.ListBidderBidsTx(ctx, tx, auctionID, req.BidderID)
		if err != nil {
			return err
		}
		if rej := engine.CheckActivity(snap, req.BidderID, models.BidHistory(history), now); rej != nil {
			return rej
		}
		out, rej := engine.ResolveProxyBid(snap, req)
		if rej != nil {
			return rej
		}
		newEnd, extended := engine.EvaluateSoftClose(snap.EndTime, now)

		applyOutcome(auc, out, newEnd, extended)
		bid := &models.Bid{
			ID:                uuid.NewString(),
			AuctionID:         auc.ID,
			BidderID:          out.BidderID,
			BidderAnonymousID: engine.Anonymize(out.BidderID, auc.ID),
			AmountPerM3:       out.AmountPerM3,
			MaxProxyPerM3:     out.MaxProxyPerM3,
			IsProxyBid:        out.IsProxyBid,
			CreatedAt:         now,
		}
		if err := s.Repo.InsertBidTx(ctx, tx, bid); err != nil {
			return err
		}
		if err := s.Repo.SaveAuctionTx(ctx, tx, auc); err != nil {
			return err
		}

		result = BidResult{Auction: auc, Bid: bid, Outcome: out, Extended: extended}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAfterBid(ctx, &result, prevLeader, req.BidderID)
	s.broadcast(&result)
	return &result, nil
}

// applyOutcome writes the resolver's clearing state back onto the stored
// auction. OriginalEndTime is never touched by extensions.
func applyOutcome(auc *models.Auction, out *engine.Outcome, newEnd time.Time, extended bool) {
	current := out.CurrentPricePerM3
	second := out.SecondHighestPricePerM3
	proxy := out.HighestMaxProxyPerM3
	total := out.ProjectedTotalValue
	leader := out.LeaderID
	anon := out.LeaderAnonymousID

	auc.CurrentPricePerM3 = &current
	auc.SecondHighestPricePerM3 = &second
	auc.HighestMaxProxyPerM3 = &proxy
	auc.ProjectedTotalValue = &total
	auc.CurrentBidderID = &leader
	auc.CurrentBidderAnonymousID = &anon
	// The canonical per-m³ price supersedes any legacy total going forward.
	auc.LegacyTotalBid = nil
	auc.BidCount++
	auc.EndTime = newEnd
	if extended {
		auc.SoftCloseActive = true
	}
}

func (s *BidService) notifyAfterBid(ctx context.Context, result *BidResult, prevLeader *string, incomingBidder string) {
	auc := result.Auction
	out := result.Outcome

	notify := func(userID, typ, title, message string) {
		n := &models.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      typ,
			Title:     title,
			Message:   message,
			AuctionID: auc.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.Repo.InsertNotification(ctx, n); err != nil && s.Logger != nil {
			s.Logger.Warn("bid notification insert failed",
				zap.String("auction_id", auc.ID),
				zap.String("type", typ),
				zap.Error(err),
			)
		}
	}

	notify(auc.OwnerID, models.NotificationNewBid,
		"New bid on your auction",
		fmt.Sprintf("%q has a new bid: %s/m³.", auc.Title, out.CurrentPricePerM3.String()))

	if prevLeader != nil && *prevLeader != out.LeaderID {
		notify(*prevLeader, models.NotificationOutbid,
			"You have been outbid",
			fmt.Sprintf("Another bidder leads %q at %s/m³.", auc.Title, out.CurrentPricePerM3.String()))
	}
	if incomingBidder != out.LeaderID {
		// The challenger lost the proxy battle and was outbid on arrival.
		notify(incomingBidder, models.NotificationOutbid,
			"You have been outbid",
			fmt.Sprintf("Your max proxy on %q was beaten; the price is now %s/m³.", auc.Title, out.CurrentPricePerM3.String()))
	}
}

func (s *BidService) broadcast(result *BidResult) {
	if s.Hub == nil {
		return
	}
	auc := result.Auction
	s.Hub.Publish(realtime.AuctionUpdate{
		AuctionID:           auc.ID,
		Event:               realtime.EventBidAccepted,
		Status:              auc.Status,
		CurrentPricePerM3:   result.Outcome.CurrentPricePerM3,
		ProjectedTotalValue: result.Outcome.ProjectedTotalValue,
		BidCount:            auc.BidCount,
		LeaderAnonymousID:   result.Outcome.LeaderAnonymousID,
		EndTime:             auc.EndTime,
		Extended:            result.Extended,
		SoftCloseActive:     auc.SoftCloseActive,
	})
}
