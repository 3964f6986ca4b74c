package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testAuction() Auction {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	return Auction{
		ID:                      "auc-1",
		OwnerID:                 "owner-1",
		DominantSpecies:         "oak",
		VolumeM3:                dec("120"),
		StartingPricePerM3:      dec("0"),
		CurrentPricePerM3:       dec("0"),
		SecondHighestPricePerM3: dec("0"),
		StartTime:               start,
		EndTime:                 end,
		OriginalEndTime:         end,
		ActivityWindowCutoff:    end.Add(-ActivityCutoffLead),
		Status:                  StatusActive,
	}
}

func TestResolveProxyBid_FirstBid(t *testing.T) {
	a := testAuction() // oak, increment 3, current price 0

	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b1", AmountPerM3: dec("10"), MaxProxyPerM3: dec("10")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.CurrentPricePerM3.Cmp(dec("10")) != 0 {
		t.Fatalf("price=%s want=10", out.CurrentPricePerM3)
	}
	if out.LeaderID != "b1" {
		t.Fatalf("leader=%s want=b1", out.LeaderID)
	}
	if out.SecondHighestPricePerM3.Cmp(dec("0")) != 0 {
		t.Fatalf("secondHighest=%s want=0", out.SecondHighestPricePerM3)
	}
	if out.IsProxyBid {
		t.Fatalf("first bid must not be flagged as proxy-generated")
	}
	if out.ProjectedTotalValue.Cmp(dec("1200")) != 0 {
		t.Fatalf("projectedTotal=%s want=1200", out.ProjectedTotalValue)
	}
}

func TestResolveProxyBid_FirstBidBelowMinimumIsRaised(t *testing.T) {
	a := testAuction()
	a.CurrentPricePerM3 = dec("40")

	// Required minimum is 40+3=43; the placed bid of 41 is raised to it.
	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b1", AmountPerM3: dec("41"), MaxProxyPerM3: dec("60")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.CurrentPricePerM3.Cmp(dec("43")) != 0 {
		t.Fatalf("price=%s want=43", out.CurrentPricePerM3)
	}
	if out.AmountPerM3.Cmp(dec("43")) != 0 {
		t.Fatalf("recorded amount=%s want=43", out.AmountPerM3)
	}
	if out.SecondHighestPricePerM3.Cmp(dec("40")) != 0 {
		t.Fatalf("secondHighest=%s want=40 (pre-bid baseline)", out.SecondHighestPricePerM3)
	}
}

func TestResolveProxyBid_FirstBidInsufficientMaxProxy(t *testing.T) {
	a := testAuction()
	a.CurrentPricePerM3 = dec("40")

	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b1", AmountPerM3: dec("41"), MaxProxyPerM3: dec("42")})
	if out != nil || rej == nil {
		t.Fatalf("want rejection, got outcome=%v rejection=%v", out, rej)
	}
	if rej.Code != CodeInsufficientMaxProxy {
		t.Fatalf("code=%s want=%s", rej.Code, CodeInsufficientMaxProxy)
	}
}

func TestResolveProxyBid_LeaderRaisesOwnCeiling(t *testing.T) {
	a := testAuction()
	a.CurrentPricePerM3 = dec("25")
	a.SecondHighestPricePerM3 = dec("20")
	a.CurrentBidderID = strPtr("b1")
	a.HighestMaxProxyPerM3 = decPtr("50")

	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b1", AmountPerM3: dec("30"), MaxProxyPerM3: dec("80")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.PriceChanged {
		t.Fatalf("re-raising one's own ceiling must not move the price")
	}
	if out.CurrentPricePerM3.Cmp(dec("25")) != 0 || out.SecondHighestPricePerM3.Cmp(dec("20")) != 0 {
		t.Fatalf("price=%s second=%s want unchanged 25/20", out.CurrentPricePerM3, out.SecondHighestPricePerM3)
	}
	if out.HighestMaxProxyPerM3.Cmp(dec("80")) != 0 {
		t.Fatalf("highestMaxProxy=%s want=80", out.HighestMaxProxyPerM3)
	}
	if out.LeaderID != "b1" || out.IsProxyBid {
		t.Fatalf("leader=%s isProxy=%v want b1/false", out.LeaderID, out.IsProxyBid)
	}
}

func TestResolveProxyBid_ChallengerLosesProxyBattle(t *testing.T) {
	a := testAuction()
	a.CurrentPricePerM3 = dec("25")
	a.CurrentBidderID = strPtr("b1")
	a.HighestMaxProxyPerM3 = decPtr("50")

	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b2", AmountPerM3: dec("30"), MaxProxyPerM3: dec("40")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.LeaderID != "b1" {
		t.Fatalf("leader=%s want=b1 (unchanged)", out.LeaderID)
	}
	// min(40+3, 50) = 43: just enough to beat the challenger's ceiling.
	if out.CurrentPricePerM3.Cmp(dec("43")) != 0 {
		t.Fatalf("price=%s want=43", out.CurrentPricePerM3)
	}
	if out.SecondHighestPricePerM3.Cmp(dec("40")) != 0 {
		t.Fatalf("secondHighest=%s want=40 (challenger ceiling)", out.SecondHighestPricePerM3)
	}
	if !out.IsProxyBid {
		t.Fatalf("system auto-raise must be flagged as proxy-generated")
	}
	if out.BidderID != "b1" {
		t.Fatalf("recorded bidder=%s want=b1 (auto-raise on leader's behalf)", out.BidderID)
	}
}

func TestResolveProxyBid_ChallengerCeilingCapsAutoRaise(t *testing.T) {
	a := testAuction()
	a.CurrentPricePerM3 = dec("25")
	a.CurrentBidderID = strPtr("b1")
	a.HighestMaxProxyPerM3 = decPtr("50")

	// Challenger ceiling 49: 49+3 exceeds the leader's 50, so the price
	// caps at the leader's own ceiling.
	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b2", AmountPerM3: dec("30"), MaxProxyPerM3: dec("49")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.CurrentPricePerM3.Cmp(dec("50")) != 0 {
		t.Fatalf("price=%s want=50", out.CurrentPricePerM3)
	}
	if out.LeaderID != "b1" {
		t.Fatalf("leader=%s want=b1", out.LeaderID)
	}
}

func TestResolveProxyBid_ChallengerWins(t *testing.T) {
	a := testAuction()
	a.CurrentPricePerM3 = dec("25")
	a.CurrentBidderID = strPtr("b1")
	a.HighestMaxProxyPerM3 = decPtr("100")

	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b2", AmountPerM3: dec("30"), MaxProxyPerM3: dec("120")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.LeaderID != "b2" {
		t.Fatalf("leader=%s want=b2", out.LeaderID)
	}
	// min(100+3, 120) = 103.
	if out.CurrentPricePerM3.Cmp(dec("103")) != 0 {
		t.Fatalf("price=%s want=103", out.CurrentPricePerM3)
	}
	if out.SecondHighestPricePerM3.Cmp(dec("100")) != 0 {
		t.Fatalf("secondHighest=%s want=100 (dethroned leader ceiling)", out.SecondHighestPricePerM3)
	}
	if out.IsProxyBid {
		t.Fatalf("leadership change is a human bid, not a system raise")
	}
	if out.HighestMaxProxyPerM3.Cmp(dec("120")) != 0 {
		t.Fatalf("highestMaxProxy=%s want=120", out.HighestMaxProxyPerM3)
	}
}

func TestResolveProxyBid_ProxyBattleSymmetry(t *testing.T) {
	inc := IncrementFor("oak")

	// A (max 100) stands, B challenges with max 80: A keeps the lead at
	// min(80+inc, 100).
	a := testAuction()
	a.CurrentPricePerM3 = dec("10")
	a.CurrentBidderID = strPtr("A")
	a.HighestMaxProxyPerM3 = decPtr("100")
	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "B", AmountPerM3: dec("15"), MaxProxyPerM3: dec("80")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	wantPrice := decimal.Min(dec("80").Add(inc), dec("100"))
	if out.LeaderID != "A" || out.CurrentPricePerM3.Cmp(wantPrice) != 0 {
		t.Fatalf("leader=%s price=%s want A at %s", out.LeaderID, out.CurrentPricePerM3, wantPrice)
	}

	// Mirror case: B (max 120) challenges A (max 100) and takes over at
	// min(100+inc, 120).
	a = testAuction()
	a.CurrentPricePerM3 = dec("10")
	a.CurrentBidderID = strPtr("A")
	a.HighestMaxProxyPerM3 = decPtr("100")
	out, rej = ResolveProxyBid(a, BidRequest{BidderID: "B", AmountPerM3: dec("15"), MaxProxyPerM3: dec("120")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	wantPrice = decimal.Min(dec("100").Add(inc), dec("120"))
	if out.LeaderID != "B" || out.CurrentPricePerM3.Cmp(wantPrice) != 0 {
		t.Fatalf("leader=%s price=%s want B at %s", out.LeaderID, out.CurrentPricePerM3, wantPrice)
	}
}

func TestResolveProxyBid_SecondPriceInvariant(t *testing.T) {
	a := testAuction()
	out, rej := ResolveProxyBid(a, BidRequest{BidderID: "b1", AmountPerM3: dec("10"), MaxProxyPerM3: dec("50")})
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	for _, req := range []BidRequest{
		{BidderID: "b2", AmountPerM3: dec("15"), MaxProxyPerM3: dec("30")},
		{BidderID: "b3", AmountPerM3: dec("20"), MaxProxyPerM3: dec("70")},
		{BidderID: "b2", AmountPerM3: dec("40"), MaxProxyPerM3: dec("65")},
	} {
		a.CurrentPricePerM3 = out.CurrentPricePerM3
		a.SecondHighestPricePerM3 = out.SecondHighestPricePerM3
		a.CurrentBidderID = &out.LeaderID
		a.HighestMaxProxyPerM3 = &out.HighestMaxProxyPerM3
		out, rej = ResolveProxyBid(a, req)
		if rej != nil {
			t.Fatalf("bid %s rejected: %v", req.BidderID, rej)
		}
		if out.CurrentPricePerM3.GreaterThan(out.HighestMaxProxyPerM3) {
			t.Fatalf("price %s exceeds leader ceiling %s", out.CurrentPricePerM3, out.HighestMaxProxyPerM3)
		}
		if !out.SecondHighestPricePerM3.LessThan(out.CurrentPricePerM3) {
			t.Fatalf("secondHighest %s not below price %s", out.SecondHighestPricePerM3, out.CurrentPricePerM3)
		}
	}
}
