package engine

import "time"

// CheckActivity enforces the closing-window activity rule: once an auction is
// inside the soft-close window, only bidders with at least one bid placed
// before the activity cutoff (15 minutes before the scheduled close) may keep
// bidding. Outside the window every bidder is eligible.
//
// The cutoff is fixed when the auction is scheduled and is not recomputed
// when soft-close extensions move the end time; late extensions never open
// the door to new entrants.
func CheckActivity(a Auction, bidderID string, history []Bid, now time.Time) *Rejection {
	untilEnd := a.EndTime.Sub(now)
	if untilEnd > SoftCloseWindow || untilEnd <= 0 {
		return nil
	}
	for _, b := range history {
		if b.BidderID == bidderID && b.Timestamp.Before(a.ActivityWindowCutoff) {
			return nil
		}
	}
	return reject(CodeActivityWindowRestricted,
		"bidding in the final %d minutes is limited to bidders who placed a bid more than %d minutes before the scheduled close",
		int(SoftCloseWindow.Minutes()), int(ActivityCutoffLead.Minutes()))
}
