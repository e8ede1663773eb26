package paywall

import "errors"

var (
	// ErrUnknownToken is returned when no payment attempt exists for a token.
	ErrUnknownToken = errors.New("unknown payment token")

	// ErrAnomalousTransition is returned when a notification asks for a state
	// change the payment state machine forbids (e.g. refund of a failed
	// attempt). Callers log it and treat the operation as a no-op.
	ErrAnomalousTransition = errors.New("anomalous payment transition")

	// ErrNotOwned is returned when a caller queries a payment token that
	// belongs to another user.
	ErrNotOwned = errors.New("payment token not owned by caller")

	// ErrUnknownPlan is returned when a checkout names a plan id the catalog
	// does not contain.
	ErrUnknownPlan = errors.New("unknown plan id")
)
