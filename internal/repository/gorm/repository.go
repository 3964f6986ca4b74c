package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timberbid/internal/models"
	"timberbid/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- auctions ---------------------------------------------------------------

func (s *Store) CreateAuction(ctx context.Context, item *models.Auction) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetAuction(ctx context.Context, id string) (*models.Auction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Auction
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetAuctionForUpdateTx(ctx context.Context, tx *gorm.DB, id string) (*models.Auction, error) {
	if tx == nil {
		return nil, errors.New("auction lock requires a transaction")
	}
	var item models.Auction
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveAuctionTx(ctx context.Context, tx *gorm.DB, item *models.Auction) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Save(item).Error
}

func (s *Store) UpdateAuctionStatus(ctx context.Context, id string, from string, to string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) ListAuctions(ctx context.Context, params repository.ListAuctionsParams) ([]models.Auction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.auctionQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "end_time")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Auction
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAuctions(ctx context.Context, params repository.ListAuctionsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.auctionQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) auctionQuery(ctx context.Context, params repository.ListAuctionsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Auction{})
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.OwnerID != nil && strings.TrimSpace(*params.OwnerID) != "" {
		query = query.Where("owner_id = ?", strings.TrimSpace(*params.OwnerID))
	}
	if params.Species != nil && strings.TrimSpace(*params.Species) != "" {
		query = query.Where("LOWER(dominant_species) = LOWER(?)", strings.TrimSpace(*params.Species))
	}
	return query
}

func (s *Store) ListAuctionsByStatuses(ctx context.Context, statuses []string, limit int) ([]models.Auction, error) {
	if s == nil || s.db == nil || len(statuses) == 0 {
		return nil, nil
	}
	var items []models.Auction
	err := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("status IN ?", statuses).
		Order("end_time asc").
		Limit(normalizeLimit(limit, 500)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListAuctionsEndingWithin(ctx context.Context, now time.Time, window time.Duration) ([]models.Auction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Auction
	err := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("status = ?", "active").
		Where("end_time > ? AND end_time <= ?", now, now.Add(window)).
		Order("end_time asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- bids -------------------------------------------------------------------

func (s *Store) InsertBidTx(ctx context.Context, tx *gorm.DB, item *models.Bid) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListBidderBidsTx(ctx context.Context, tx *gorm.DB, auctionID, bidderID string) ([]models.Bid, error) {
	if tx == nil {
		return nil, nil
	}
	var items []models.Bid
	err := tx.WithContext(ctx).
		Model(&models.Bid{}).
		Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListBidsByAuction(ctx context.Context, auctionID string, limit, offset int) ([]models.Bid, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Bid
	err := s.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Order("created_at desc").
		Limit(normalizeLimit(limit, 100)).
		Offset(normalizeOffset(offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DistinctBidderIDs(ctx context.Context, auctionID string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Bid{}).
		Distinct("bidder_id").
		Where("auction_id = ?", auctionID).
		Pluck("bidder_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// --- notifications ----------------------------------------------------------

func (s *Store) InsertNotification(ctx context.Context, item *models.Notification) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListNotifications(ctx context.Context, params repository.ListNotificationsParams) ([]models.Notification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", params.UserID)
	if params.UnreadOnly {
		query = query.Where("read = false")
	}
	var items []models.Notification
	err := query.
		Order("created_at desc").
		Limit(normalizeLimit(params.Limit, 50)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Count(&total).Error
	return total, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string, userID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) HasNotification(ctx context.Context, userID, auctionID, notificationType string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND auction_id = ? AND type = ?", userID, auctionID, notificationType).
		Count(&total).Error
	return total > 0, err
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, def string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	switch column {
	case "end_time", "start_time", "created_at", "current_price_per_m3", "bid_count":
	default:
		column = def
	}
	dir := "asc"
	if asc == nil || !*asc {
		dir = "desc"
	}
	if column == def && orderBy == "" {
		dir = "asc"
	}
	return query.Order(column + " " + dir)
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 || limit > 1000 {
		return def
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
