// Package engine implements the auction clearing logic for timber-lot
// auctions: proxy bidding with second-price clearing, soft-close extensions,
// the closing-window activity rule, and the auction lifecycle state machine.
//
// Every function is pure with respect to its inputs. The engine never touches
// storage, never logs, and never reads the clock; callers pass `now` in and
// persist whatever comes back. Serializing concurrent bids on the same auction
// is the storage layer's job.
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
	StatusSold     Status = "sold"
)

const (
	// SoftCloseWindow is how close to the end a bid has to land to trigger
	// an extension, and also the length of each extension.
	SoftCloseWindow    = 3 * time.Minute
	SoftCloseExtension = 3 * time.Minute

	// ActivityCutoffLead is how long before the scheduled close a bidder
	// must have been active to keep bidding inside the soft-close window.
	ActivityCutoffLead = 15 * time.Minute
)

// Auction is the engine's view of one auction: a consistent snapshot taken
// inside the caller's storage transaction. Build it with
// models.Auction.ClearingSnapshot, which also handles legacy price fields.
type Auction struct {
	ID              string
	OwnerID         string
	DominantSpecies string
	VolumeM3        decimal.Decimal

	StartingPricePerM3      decimal.Decimal
	CurrentPricePerM3       decimal.Decimal
	SecondHighestPricePerM3 decimal.Decimal
	HighestMaxProxyPerM3    *decimal.Decimal

	CurrentBidderID *string

	StartTime            time.Time
	EndTime              time.Time
	OriginalEndTime      time.Time
	ActivityWindowCutoff time.Time
	SoftCloseActive      bool

	Status   Status
	BidCount int
}

// Bid is one prior bid on an auction, as needed by the activity check.
type Bid struct {
	BidderID      string
	AmountPerM3   decimal.Decimal
	MaxProxyPerM3 decimal.Decimal
	IsProxyBid    bool
	Timestamp     time.Time
}

// BidRequest is an incoming bid: the price point the bidder is placing now
// and the ceiling they authorize the system to bid up to on their behalf.
type BidRequest struct {
	BidderID      string
	AmountPerM3   decimal.Decimal
	MaxProxyPerM3 decimal.Decimal
}
