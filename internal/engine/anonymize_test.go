package engine

import (
	"regexp"
	"testing"
)

func TestAnonymize_StableAndFormatted(t *testing.T) {
	got := Anonymize("user-123", "auc-456")
	if got != Anonymize("user-123", "auc-456") {
		t.Fatalf("handle not stable across calls")
	}
	if !regexp.MustCompile(`^BIDDER-\d{4}$`).MatchString(got) {
		t.Fatalf("handle %q does not match BIDDER-XXXX", got)
	}
}

func TestAnonymize_VariesByAuction(t *testing.T) {
	// The same bidder gets different handles on different auctions so
	// handles cannot be correlated across lots.
	a := Anonymize("user-123", "auc-1")
	b := Anonymize("user-123", "auc-2")
	if a == b {
		t.Fatalf("handles %q and %q should differ across auctions", a, b)
	}
}

func TestAnonymize_EmptyInput(t *testing.T) {
	if got := Anonymize("", ""); got != "BIDDER-0000" {
		t.Fatalf("got %q want BIDDER-0000 for empty input", got)
	}
}
