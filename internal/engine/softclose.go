package engine

import "time"

// EvaluateSoftClose decides whether a bid landing now pushes the auction end
// out. Inside the window (0 < endTime-now ≤ SoftCloseWindow) the new end is
// now+SoftCloseExtension; the caller persists it and leaves OriginalEndTime
// untouched. Evaluated after every accepted bid: repeated late bids keep
// extending with no cap, which is the intended anti-sniping behavior.
func EvaluateSoftClose(endTime, now time.Time) (time.Time, bool) {
	untilEnd := endTime.Sub(now)
	if untilEnd > 0 && untilEnd <= SoftCloseWindow {
		return now.Add(SoftCloseExtension), true
	}
	return endTime, false
}
