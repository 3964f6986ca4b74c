package engine

import "time"

// ValidateBid runs the pre-flight checks gating entry to the resolver.
// Order matters: timing first, then identity, then economic validity.
// Returns nil when the bid may proceed to the activity check.
func ValidateBid(a Auction, req BidRequest, now time.Time) *Rejection {
	if now.Before(a.StartTime) {
		return reject(CodeNotStarted, "auction has not started yet")
	}
	if now.After(a.EndTime) {
		return reject(CodeAlreadyEnded, "auction has already ended")
	}
	if req.BidderID == a.OwnerID {
		return reject(CodeSelfBid, "you cannot bid on your own auction")
	}
	minimum := a.CurrentPricePerM3.Add(IncrementFor(a.DominantSpecies))
	if req.AmountPerM3.LessThan(minimum) {
		return reject(CodeBelowMinimumIncrement,
			"bid must be at least %s/m³ (minimum increment for %s)",
			minimum.String(), a.DominantSpecies)
	}
	if req.MaxProxyPerM3.LessThan(req.AmountPerM3) {
		return reject(CodeProxyBelowBid, "max proxy cannot be below the bid amount")
	}
	return nil
}
