package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"timberbid/internal/engine"
	"timberbid/internal/models"
	"timberbid/internal/repository"
)

var (
	ErrNotOwner        = errors.New("only the auction owner may do this")
	ErrNotDraft        = errors.New("auction is not a draft")
	ErrInvalidInput    = errors.New("invalid auction input")
	ErrInvalidSchedule = errors.New("invalid auction schedule")
)

type CreateAuctionInput struct {
	Title              string
	DominantSpecies    string
	VolumeM3           decimal.Decimal
	StartingPricePerM3 decimal.Decimal
	Details            datatypes.JSON
}

// AuctionService covers the owner-facing surface around the engine: draft
// creation, publishing (the one explicit transition the lifecycle policy
// does not drive), and reads.
type AuctionService struct {
	Repo repository.Repository

	Now func() time.Time
}

func (s *AuctionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *AuctionService) CreateDraft(ctx context.Context, ownerID string, in CreateAuctionInput) (*models.Auction, error) {
	if strings.TrimSpace(ownerID) == "" ||
		strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.DominantSpecies) == "" ||
		!in.VolumeM3.IsPositive() ||
		in.StartingPricePerM3.IsNegative() {
		return nil, ErrInvalidInput
	}
	now := s.now()
	auc := &models.Auction{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		Title:              strings.TrimSpace(in.Title),
		DominantSpecies:    strings.ToLower(strings.TrimSpace(in.DominantSpecies)),
		VolumeM3:           in.VolumeM3,
		StartingPricePerM3: in.StartingPricePerM3,
		Status:             string(engine.StatusDraft),
		Details:            in.Details,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Repo.CreateAuction(ctx, auc); err != nil {
		return nil, err
	}
	return auc, nil
}

// Publish schedules a draft: draft→upcoming is the only status change a user
// triggers directly. The activity cutoff is fixed here, relative to the
// scheduled end; soft-close extensions never move it.
func (s *AuctionService) Publish(ctx context.Context, id, callerID string, startTime, endTime time.Time) (*models.Auction, error) {
	auc, err := s.Repo.GetAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	if auc == nil {
		return nil, ErrAuctionNotFound
	}
	if auc.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	if auc.Status != string(engine.StatusDraft) {
		return nil, ErrNotDraft
	}
	now := s.now()
	if startTime.IsZero() || endTime.IsZero() || !endTime.After(startTime) || endTime.Before(now) {
		return nil, ErrInvalidSchedule
	}

	auc.StartTime = startTime
	auc.EndTime = endTime
	auc.OriginalEndTime = endTime
	auc.ActivityWindowCutoff = endTime.Add(-engine.ActivityCutoffLead)
	auc.Status = string(engine.StatusUpcoming)
	auc.UpdatedAt = now

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		return s.Repo.SaveAuctionTx(ctx, tx, auc)
	})
	if err != nil {
		return nil, err
	}
	return auc, nil
}

func (s *AuctionService) Get(ctx context.Context, id string) (*models.Auction, error) {
	auc, err := s.Repo.GetAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	if auc == nil {
		return nil, ErrAuctionNotFound
	}
	return auc, nil
}

func (s *AuctionService) List(ctx context.Context, params repository.ListAuctionsParams) ([]models.Auction, int64, error) {
	items, err := s.Repo.ListAuctions(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountAuctions(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *AuctionService) ListBids(ctx context.Context, auctionID string, limit, offset int) ([]models.Bid, error) {
	auc, err := s.Repo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auc == nil {
		return nil, ErrAuctionNotFound
	}
	return s.Repo.ListBidsByAuction(ctx, auctionID, limit, offset)
}
