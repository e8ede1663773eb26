package paywall

import "github.com/FelixBrandt/PressPass/internal/pkg/plans"

// AmountTolerance is the maximum accepted difference, in minor currency
// units, between the notification's claimed amount and the catalog price.
// Exactly one unit absorbs the processor's decimal-to-integer rounding.
const AmountTolerance = int64(1)

// CheckAmount compares a claimed amount against the authoritative plan
// price. A nil plan (unknown id) fails closed. Callers must treat a false
// result as fraud: no grant, and a fraud_detected audit entry.
func CheckAmount(plan *plans.Plan, claimedMinor int64) bool {
	if plan == nil {
		return false
	}
	diff := plan.Price - claimedMinor
	if diff < 0 {
		diff = -diff
	}
	return diff <= AmountTolerance
}
