// Package realtime fans accepted-bid and lifecycle updates out to websocket
// subscribers, one subscription stream per auction.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// AuctionUpdate is the live payload broadcast after every accepted bid and
// every lifecycle transition.
type AuctionUpdate struct {
	AuctionID           string          `json:"auctionId"`
	Event               string          `json:"event"`
	Status              string          `json:"status"`
	CurrentPricePerM3   decimal.Decimal `json:"currentPricePerM3"`
	ProjectedTotalValue decimal.Decimal `json:"projectedTotalValue"`
	BidCount            int             `json:"bidCount"`
	LeaderAnonymousID   string          `json:"leaderAnonymousId,omitempty"`
	EndTime             time.Time       `json:"endTime"`
	Extended            bool            `json:"extended"`
	SoftCloseActive     bool            `json:"softCloseActive"`
	Timestamp           time.Time       `json:"timestamp"`
}

const (
	EventBidAccepted = "bid_accepted"
	EventStatus      = "status_changed"
)

// Hub is an in-process broadcast channel keyed by auction id. Publishing
// never blocks; a subscriber that cannot keep up loses updates rather than
// stalling the bid path.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan AuctionUpdate]struct{}

	buf     int
	dropped uint64
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger, subscriberBuffer int) *Hub {
	if subscriberBuffer <= 0 {
		subscriberBuffer = 16
	}
	return &Hub{
		subs:   map[string]map[chan AuctionUpdate]struct{}{},
		buf:    subscriberBuffer,
		logger: logger,
	}
}

// Subscribe returns a stream of updates for one auction and a cancel func.
func (h *Hub) Subscribe(auctionID string) (<-chan AuctionUpdate, func()) {
	ch := make(chan AuctionUpdate, h.buf)
	h.mu.Lock()
	if h.subs[auctionID] == nil {
		h.subs[auctionID] = map[chan AuctionUpdate]struct{}{}
	}
	h.subs[auctionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[auctionID], ch)
			if len(h.subs[auctionID]) == 0 {
				delete(h.subs, auctionID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(u AuctionUpdate) {
	if h == nil {
		return
	}
	if u.Timestamp.IsZero() {
		u.Timestamp = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[u.AuctionID] {
		select {
		case ch <- u:
		default:
			n := atomic.AddUint64(&h.dropped, 1)
			if h.logger != nil && n%100 == 1 {
				h.logger.Warn("realtime update dropped: slow subscriber",
					zap.String("auction_id", u.AuctionID),
					zap.Uint64("dropped_total", n),
				)
			}
		}
	}
}

func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// ServeConn pumps one auction's updates to a websocket client until the
// context ends or the client goes away.
func (h *Hub) ServeConn(ctx context.Context, conn *websocket.Conn, auctionID string, writeTimeout time.Duration) error {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	updates, cancel := h.Subscribe(auctionID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, u)
			wcancel()
			if err != nil {
				return err
			}
		}
	}
}
