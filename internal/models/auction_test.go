package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestClearingSnapshot_CanonicalPrice(t *testing.T) {
	a := Auction{
		ID:                 "auc-1",
		VolumeM3:           d("100"),
		StartingPricePerM3: d("30"),
		CurrentPricePerM3:  dp("42"),
	}
	snap := a.ClearingSnapshot()
	if snap.CurrentPricePerM3.Cmp(d("42")) != 0 {
		t.Fatalf("current=%s want=42", snap.CurrentPricePerM3)
	}
	if snap.SecondHighestPricePerM3.Cmp(d("30")) != 0 {
		t.Fatalf("second=%s want starting price 30", snap.SecondHighestPricePerM3)
	}
}

func TestClearingSnapshot_LegacyTotalFallback(t *testing.T) {
	// Old rows carry only the lot total; the snapshot derives price-per-m³
	// once here so engine branches never repeat the arithmetic.
	a := Auction{
		ID:                 "auc-1",
		VolumeM3:           d("200"),
		StartingPricePerM3: d("10"),
		LegacyTotalBid:     dp("9000"),
	}
	snap := a.ClearingSnapshot()
	if snap.CurrentPricePerM3.Cmp(d("45")) != 0 {
		t.Fatalf("current=%s want=45 (9000/200)", snap.CurrentPricePerM3)
	}
}

func TestClearingSnapshot_NoBidsFallsBackToStartingPrice(t *testing.T) {
	a := Auction{
		ID:                 "auc-1",
		VolumeM3:           d("50"),
		StartingPricePerM3: d("25"),
	}
	snap := a.ClearingSnapshot()
	if snap.CurrentPricePerM3.Cmp(d("25")) != 0 {
		t.Fatalf("current=%s want starting price 25", snap.CurrentPricePerM3)
	}
}
