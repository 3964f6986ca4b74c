package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"timberbid/internal/engine"
)

type Auction struct {
	ID              string          `gorm:"primaryKey;type:text" json:"id"`
	OwnerID         string          `gorm:"type:text;index;not null" json:"ownerId"`
	Title           string          `gorm:"type:text;not null" json:"title"`
	DominantSpecies string          `gorm:"type:text;not null" json:"dominantSpecies"`
	VolumeM3        decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"volumeM3"`

	StartingPricePerM3      decimal.Decimal  `gorm:"type:numeric(20,4);not null" json:"startingPricePerM3"`
	CurrentPricePerM3       *decimal.Decimal `gorm:"type:numeric(20,4)" json:"currentPricePerM3,omitempty"`
	SecondHighestPricePerM3 *decimal.Decimal `gorm:"type:numeric(20,4)" json:"secondHighestPricePerM3,omitempty"`
	HighestMaxProxyPerM3    *decimal.Decimal `gorm:"type:numeric(20,4)" json:"-"`
	ProjectedTotalValue     *decimal.Decimal `gorm:"type:numeric(30,4)" json:"projectedTotalValue,omitempty"`
	// Pre-migration rows stored the running total for the whole lot instead
	// of a per-m³ price; ClearingSnapshot derives the canonical price from it.
	LegacyTotalBid *decimal.Decimal `gorm:"type:numeric(30,4)" json:"-"`

	CurrentBidderID          *string `gorm:"type:text;index" json:"-"`
	CurrentBidderAnonymousID *string `gorm:"type:text" json:"currentBidderAnonymousId,omitempty"`

	StartTime            time.Time `gorm:"type:timestamptz" json:"startTime"`
	EndTime              time.Time `gorm:"type:timestamptz;index" json:"endTime"`
	OriginalEndTime      time.Time `gorm:"type:timestamptz" json:"originalEndTime"`
	ActivityWindowCutoff time.Time `gorm:"type:timestamptz" json:"activityWindowCutoff"`
	SoftCloseActive      bool      `gorm:"not null;default:false" json:"softCloseActive"`

	Status   string `gorm:"type:text;index;not null;default:draft" json:"status"`
	BidCount int    `gorm:"not null;default:0" json:"bidCount"`

	// Lot metadata the clearing engine never reads: location, grade notes,
	// harvest documents and so on.
	Details datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz" json:"updatedAt"`
}

func (Auction) TableName() string {
	return "auctions"
}

// ClearingSnapshot converts a stored auction into the engine's canonical
// view. This is the single place the legacy total-bid fallback happens, so
// the engine's branches never see a missing per-m³ price.
func (a *Auction) ClearingSnapshot() engine.Auction {
	current := a.StartingPricePerM3
	switch {
	case a.CurrentPricePerM3 != nil:
		current = *a.CurrentPricePerM3
	case a.LegacyTotalBid != nil && a.VolumeM3.IsPositive():
		current = a.LegacyTotalBid.Div(a.VolumeM3)
	}

	second := a.StartingPricePerM3
	if a.SecondHighestPricePerM3 != nil {
		second = *a.SecondHighestPricePerM3
	}

	return engine.Auction{
		ID:                      a.ID,
		OwnerID:                 a.OwnerID,
		DominantSpecies:         a.DominantSpecies,
		VolumeM3:                a.VolumeM3,
		StartingPricePerM3:      a.StartingPricePerM3,
		CurrentPricePerM3:       current,
		SecondHighestPricePerM3: second,
		HighestMaxProxyPerM3:    a.HighestMaxProxyPerM3,
		CurrentBidderID:         a.CurrentBidderID,
		StartTime:               a.StartTime,
		EndTime:                 a.EndTime,
		OriginalEndTime:         a.OriginalEndTime,
		ActivityWindowCutoff:    a.ActivityWindowCutoff,
		SoftCloseActive:         a.SoftCloseActive,
		Status:                  engine.Status(a.Status),
		BidCount:                a.BidCount,
	}
}
