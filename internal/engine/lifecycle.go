package engine

import "time"

// Transition is the lifecycle policy's verdict for one auction at one instant.
// Changed=false means the auction stays where it is; re-evaluating an
// already-transitioned auction yields Changed=false, which is what makes the
// periodic sweep idempotent.
type Transition struct {
	From    Status
	To      Status
	Changed bool

	// NotifyLive: the owner should hear their auction just went live.
	NotifyLive bool
	// Settle: the auction just ended and settlement (winner/owner/loser
	// notifications) must run.
	Settle bool
}

// EvaluateLifecycle drives draft → upcoming → active → ended → sold.
//
// draft and sold are terminal here: draft leaves only via an explicit publish
// action, and an auction that ended without bids stays in ended forever
// because ended → sold requires a standing leader.
func EvaluateLifecycle(a Auction, now time.Time) Transition {
	switch a.Status {
	case StatusUpcoming:
		if !now.Before(a.StartTime) {
			return Transition{From: a.Status, To: StatusActive, Changed: true, NotifyLive: true}
		}
	case StatusActive:
		if !now.Before(a.EndTime) {
			return Transition{From: a.Status, To: StatusEnded, Changed: true, Settle: true}
		}
	case StatusEnded:
		if a.CurrentBidderID != nil {
			return Transition{From: a.Status, To: StatusSold, Changed: true}
		}
	}
	return Transition{From: a.Status, To: a.Status}
}
