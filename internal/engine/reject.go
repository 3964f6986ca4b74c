package engine

import "fmt"

// RejectCode tags a validation rejection. Codes are stable identifiers for
// the API boundary; Reason is the user-displayable explanation.
type RejectCode string

const (
	CodeNotStarted               RejectCode = "not_started"
	CodeAlreadyEnded             RejectCode = "already_ended"
	CodeSelfBid                  RejectCode = "self_bid"
	CodeBelowMinimumIncrement    RejectCode = "below_minimum_increment"
	CodeProxyBelowBid            RejectCode = "proxy_below_bid"
	CodeInsufficientMaxProxy     RejectCode = "insufficient_max_proxy"
	CodeActivityWindowRestricted RejectCode = "activity_window_restricted"
)

// Rejection is a recoverable refusal to accept a bid. It is never used for
// control flow inside the engine; each invocation surfaces at most one.
type Rejection struct {
	Code   RejectCode
	Reason string
}

func (r *Rejection) Error() string {
	if r == nil {
		return ""
	}
	return r.Reason
}

func reject(code RejectCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Reason: fmt.Sprintf(format, args...)}
}
