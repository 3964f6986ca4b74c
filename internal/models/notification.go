package models

import "time"

const (
	NotificationOutbid        = "outbid"
	NotificationWon           = "won"
	NotificationSold          = "sold"
	NotificationNewBid        = "new_bid"
	NotificationAuctionEnding = "auction_ending"
	NotificationAuctionLive   = "auction_live"
)

// Notification is immutable except for the read flag.
type Notification struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"type:text;index;not null" json:"userId"`
	Type      string    `gorm:"type:text;not null" json:"type"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	AuctionID string    `gorm:"type:text;index;not null" json:"auctionId"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"type:timestamptz;index" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
