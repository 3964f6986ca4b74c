package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"timberbid/internal/models"
)

// Repository is the storage collaborator for the clearing engine. Bid
// placement needs the transactional read-modify-write path (InTx +
// GetAuctionForUpdateTx) so that at most one resolver outcome wins per
// auction at any instant.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	CreateAuction(ctx context.Context, item *models.Auction) error
	GetAuction(ctx context.Context, id string) (*models.Auction, error)
	// GetAuctionForUpdateTx takes a row lock on the auction; every bid for
	// the same auction serializes behind it until the transaction commits.
	GetAuctionForUpdateTx(ctx context.Context, tx *gorm.DB, id string) (*models.Auction, error)
	SaveAuctionTx(ctx context.Context, tx *gorm.DB, item *models.Auction) error
	// UpdateAuctionStatus transitions status only when it still holds the
	// expected value; reports whether a row changed. Concurrent lifecycle
	// sweeps stay idempotent through this guard.
	UpdateAuctionStatus(ctx context.Context, id string, from string, to string) (bool, error)
	ListAuctions(ctx context.Context, params ListAuctionsParams) ([]models.Auction, error)
	CountAuctions(ctx context.Context, params ListAuctionsParams) (int64, error)
	ListAuctionsByStatuses(ctx context.Context, statuses []string, limit int) ([]models.Auction, error)
	ListAuctionsEndingWithin(ctx context.Context, now time.Time, window time.Duration) ([]models.Auction, error)

	InsertBidTx(ctx context.Context, tx *gorm.DB, item *models.Bid) error
	ListBidderBidsTx(ctx context.Context, tx *gorm.DB, auctionID, bidderID string) ([]models.Bid, error)
	ListBidsByAuction(ctx context.Context, auctionID string, limit, offset int) ([]models.Bid, error)
	DistinctBidderIDs(ctx context.Context, auctionID string) ([]string, error)

	InsertNotification(ctx context.Context, item *models.Notification) error
	ListNotifications(ctx context.Context, params ListNotificationsParams) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, id string, userID string) (bool, error)
	HasNotification(ctx context.Context, userID, auctionID, notificationType string) (bool, error)
}

type ListAuctionsParams struct {
	Limit   int
	Offset  int
	Status  *string
	OwnerID *string
	Species *string
	OrderBy string
	Asc     *bool
}

type ListNotificationsParams struct {
	Limit      int
	Offset     int
	UserID     string
	UnreadOnly bool
}
