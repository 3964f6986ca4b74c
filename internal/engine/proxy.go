package engine

import "github.com/shopspring/decimal"

// Outcome is an accepted clearing result. The caller persists the new
// clearing state on the auction and records exactly one bid row from the
// Bidder/Amount/MaxProxy/IsProxyBid fields.
type Outcome struct {
	// The bid row to record. BidderID is the party whose price point this
	// is: the incoming bidder, or the standing leader when the system
	// auto-raised on their behalf.
	BidderID      string
	AmountPerM3   decimal.Decimal
	MaxProxyPerM3 decimal.Decimal
	IsProxyBid    bool

	// New auction clearing state.
	LeaderID                string
	LeaderAnonymousID       string
	CurrentPricePerM3       decimal.Decimal
	SecondHighestPricePerM3 decimal.Decimal
	HighestMaxProxyPerM3    decimal.Decimal
	ProjectedTotalValue     decimal.Decimal

	// PriceChanged is false only when a leader re-raised their own ceiling.
	PriceChanged bool
}

// ResolveProxyBid runs the second-price proxy algorithm against a validated
// bid. The visible price only ever moves just enough to beat the second-best
// committed ceiling; a leader's true maximum is revealed only when forced.
//
// Case order:
//  1. no standing leader (first bid on the auction)
//  2. the leader re-raising their own ceiling
//  3. challenger's ceiling ≤ leader's ceiling: system auto-raises the leader
//  4. challenger's ceiling > leader's ceiling: leadership changes hands
//
// Only case 1 can fail (ceiling below the required minimum). Invalid input is
// the validator's problem, not handled here.
func ResolveProxyBid(a Auction, req BidRequest) (*Outcome, *Rejection) {
	inc := IncrementFor(a.DominantSpecies)

	if a.CurrentBidderID == nil {
		minimum := a.CurrentPricePerM3.Add(inc)
		accepted := decimal.Max(req.AmountPerM3, minimum)
		if req.MaxProxyPerM3.LessThan(accepted) {
			return nil, reject(CodeInsufficientMaxProxy,
				"max proxy %s/m³ is below the required bid of %s/m³",
				req.MaxProxyPerM3.String(), accepted.String())
		}
		return finish(a, Outcome{
			BidderID:                req.BidderID,
			AmountPerM3:             accepted,
			MaxProxyPerM3:           req.MaxProxyPerM3,
			LeaderID:                req.BidderID,
			CurrentPricePerM3:       accepted,
			SecondHighestPricePerM3: a.CurrentPricePerM3,
			HighestMaxProxyPerM3:    req.MaxProxyPerM3,
			PriceChanged:            true,
		}), nil
	}

	leaderID := *a.CurrentBidderID
	leaderMax := a.CurrentPricePerM3
	if a.HighestMaxProxyPerM3 != nil {
		leaderMax = *a.HighestMaxProxyPerM3
	}

	if leaderID == req.BidderID {
		// Re-raising one's own ceiling moves no prices.
		return finish(a, Outcome{
			BidderID:                leaderID,
			AmountPerM3:             a.CurrentPricePerM3,
			MaxProxyPerM3:           req.MaxProxyPerM3,
			LeaderID:                leaderID,
			CurrentPricePerM3:       a.CurrentPricePerM3,
			SecondHighestPricePerM3: a.SecondHighestPricePerM3,
			HighestMaxProxyPerM3:    req.MaxProxyPerM3,
		}), nil
	}

	if req.MaxProxyPerM3.LessThanOrEqual(leaderMax) {
		// Challenger loses the proxy battle: bid the leader up just past
		// the challenger's ceiling, capped at the leader's own ceiling.
		price := decimal.Min(req.MaxProxyPerM3.Add(inc), leaderMax)
		return finish(a, Outcome{
			BidderID:                leaderID,
			AmountPerM3:             price,
			MaxProxyPerM3:           leaderMax,
			IsProxyBid:              true,
			LeaderID:                leaderID,
			CurrentPricePerM3:       price,
			SecondHighestPricePerM3: req.MaxProxyPerM3,
			HighestMaxProxyPerM3:    leaderMax,
			PriceChanged:            true,
		}), nil
	}

	// Challenger wins: pay just enough to beat the dethroned leader's
	// ceiling, capped at the challenger's own.
	price := decimal.Min(leaderMax.Add(inc), req.MaxProxyPerM3)
	return finish(a, Outcome{
		BidderID:                req.BidderID,
		AmountPerM3:             price,
		MaxProxyPerM3:           req.MaxProxyPerM3,
		LeaderID:                req.BidderID,
		CurrentPricePerM3:       price,
		SecondHighestPricePerM3: leaderMax,
		HighestMaxProxyPerM3:    req.MaxProxyPerM3,
		PriceChanged:            true,
	}), nil
}

func finish(a Auction, out Outcome) *Outcome {
	out.LeaderAnonymousID = Anonymize(out.LeaderID, a.ID)
	out.ProjectedTotalValue = out.CurrentPricePerM3.Mul(a.VolumeM3)
	return &out
}
