package engine

import "fmt"

// Anonymize derives the public bidder handle shown in place of a real
// identity: "BIDDER-XXXX", stable for a given bidder+auction pair across
// calls and processes.
//
// This is display-only de-identification, not a security boundary. The hash
// is a 31-multiplier rolling hash wrapped to signed 32 bits; collisions
// between different bidders are tolerated.
func Anonymize(bidderID, auctionID string) string {
	var h int32
	for _, c := range bidderID + auctionID {
		h = h*31 + int32(c)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("BIDDER-%04d", n%10000)
}
