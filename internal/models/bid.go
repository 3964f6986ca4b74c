package models

import (
	"time"

	"github.com/shopspring/decimal"

	"timberbid/internal/engine"
)

// Bid rows are append-only: created from accepted resolver outcomes, never
// updated or deleted.
type Bid struct {
	ID                string          `gorm:"primaryKey;type:text" json:"id"`
	AuctionID         string          `gorm:"type:text;index;not null" json:"auctionId"`
	BidderID          string          `gorm:"type:text;index;not null" json:"-"`
	BidderAnonymousID string          `gorm:"type:text;not null" json:"bidderAnonymousId"`
	AmountPerM3       decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amountPerM3"`
	MaxProxyPerM3     decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"-"`
	// True when the system generated this price point on a leader's behalf
	// rather than a human placing it.
	IsProxyBid bool      `gorm:"not null;default:false" json:"isProxyBid"`
	CreatedAt  time.Time `gorm:"type:timestamptz;index" json:"createdAt"`
}

func (Bid) TableName() string {
	return "bids"
}

func (b *Bid) History() engine.Bid {
	return engine.Bid{
		BidderID:      b.BidderID,
		AmountPerM3:   b.AmountPerM3,
		MaxProxyPerM3: b.MaxProxyPerM3,
		IsProxyBid:    b.IsProxyBid,
		Timestamp:     b.CreatedAt,
	}
}

func BidHistory(bids []Bid) []engine.Bid {
	out := make([]engine.Bid, 0, len(bids))
	for i := range bids {
		out = append(out, bids[i].History())
	}
	return out
}
