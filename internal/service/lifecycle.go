package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"timberbid/internal/engine"
	"timberbid/internal/models"
	"timberbid/internal/realtime"
	"timberbid/internal/repository"
)

// LifecycleService is the scheduler-driven half of the engine: a periodic
// sweep applies the pure transition policy to every non-terminal auction and
// runs settlement when one ends. Sweeps are idempotent: the status write is
// guarded on the expected previous status, so a transition's side effects run
// at most once even with overlapping sweeps.
type LifecycleService struct {
	Repo   repository.Repository
	Hub    *realtime.Hub
	Logger *zap.Logger

	// EndingSoonLead is how far before the close the auction_ending
	// notification goes out.
	EndingSoonLead time.Duration

	Now func() time.Time
}

func (s *LifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

var sweepStatuses = []string{
	string(engine.StatusUpcoming),
	string(engine.StatusActive),
	string(engine.StatusEnded),
}

func (s *LifecycleService) Sweep(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return errors.New("lifecycle service not configured")
	}
	now := s.now()
	auctions, err := s.Repo.ListAuctionsByStatuses(ctx, sweepStatuses, 0)
	if err != nil {
		return err
	}
	for i := range auctions {
		auc := &auctions[i]
		tr := engine.EvaluateLifecycle(auc.ClearingSnapshot(), now)
		if !tr.Changed {
			continue
		}
		moved, err := s.Repo.UpdateAuctionStatus(ctx, auc.ID, string(tr.From), string(tr.To))
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("lifecycle transition failed",
					zap.String("auction_id", auc.ID),
					zap.String("to", string(tr.To)),
					zap.Error(err),
				)
			}
			continue
		}
		if !moved {
			// Another sweep got there first; its side effects already ran.
			continue
		}
		auc.Status = string(tr.To)

		if tr.NotifyLive {
			s.notify(ctx, auc.OwnerID, models.NotificationAuctionLive, auc.ID,
				"Your auction is live",
				fmt.Sprintf("Bidding on %q is now open.", auc.Title))
		}
		if tr.Settle {
			s.settle(ctx, auc)
		}
		if s.Hub != nil {
			s.Hub.Publish(realtime.AuctionUpdate{
				AuctionID: auc.ID,
				Event:     realtime.EventStatus,
				Status:    auc.Status,
				BidCount:  auc.BidCount,
				EndTime:   auc.EndTime,
			})
		}
	}
	return nil
}

// settle runs once per auction, on the active→ended transition.
func (s *LifecycleService) settle(ctx context.Context, auc *models.Auction) {
	if auc.CurrentBidderID == nil {
		s.notify(ctx, auc.OwnerID, models.NotificationSold, auc.ID,
			"Auction ended without bids",
			fmt.Sprintf("%q closed with no bids.", auc.Title))
		return
	}

	winner := *auc.CurrentBidderID
	price := auc.StartingPricePerM3
	if auc.CurrentPricePerM3 != nil {
		price = *auc.CurrentPricePerM3
	}
	total := price.Mul(auc.VolumeM3)
	if auc.ProjectedTotalValue != nil {
		total = *auc.ProjectedTotalValue
	}
	anon := engine.Anonymize(winner, auc.ID)
	if auc.CurrentBidderAnonymousID != nil {
		anon = *auc.CurrentBidderAnonymousID
	}

	s.notify(ctx, winner, models.NotificationWon, auc.ID,
		"You won the auction",
		fmt.Sprintf("You won %q at %s/m³ (total %s).", auc.Title, price.String(), total.String()))
	s.notify(ctx, auc.OwnerID, models.NotificationSold, auc.ID,
		"Your auction sold",
		fmt.Sprintf("%q sold to %s at %s/m³ (total %s).", auc.Title, anon, price.String(), total.String()))

	bidders, err := s.Repo.DistinctBidderIDs(ctx, auc.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("settlement bidder enumeration failed",
				zap.String("auction_id", auc.ID), zap.Error(err))
		}
		return
	}
	for _, bidder := range bidders {
		if bidder == winner {
			continue
		}
		s.notify(ctx, bidder, models.NotificationSold, auc.ID,
			"Auction ended",
			fmt.Sprintf("%q has ended; the winning bid was %s/m³.", auc.Title, price.String()))
	}
}

// NotifyEndingSoon sends each distinct bidder a one-shot heads-up when an
// active auction enters the lead window before its close.
func (s *LifecycleService) NotifyEndingSoon(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return errors.New("lifecycle service not configured")
	}
	lead := s.EndingSoonLead
	if lead <= 0 {
		lead = 15 * time.Minute
	}
	now := s.now()
	auctions, err := s.Repo.ListAuctionsEndingWithin(ctx, now, lead)
	if err != nil {
		return err
	}
	for i := range auctions {
		auc := &auctions[i]
		bidders, err := s.Repo.DistinctBidderIDs(ctx, auc.ID)
		if err != nil {
			continue
		}
		for _, bidder := range bidders {
			seen, err := s.Repo.HasNotification(ctx, bidder, auc.ID, models.NotificationAuctionEnding)
			if err != nil || seen {
				continue
			}
			s.notify(ctx, bidder, models.NotificationAuctionEnding, auc.ID,
				"Auction ending soon",
				fmt.Sprintf("%q closes at %s.", auc.Title, auc.EndTime.Format(time.RFC3339)))
		}
	}
	return nil
}

func (s *LifecycleService) notify(ctx context.Context, userID, typ, auctionID, title, message string) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		AuctionID: auctionID,
		CreatedAt: s.now(),
	}
	if err := s.Repo.InsertNotification(ctx, n); err != nil && s.Logger != nil {
		s.Logger.Warn("lifecycle notification insert failed",
			zap.String("auction_id", auctionID),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}
