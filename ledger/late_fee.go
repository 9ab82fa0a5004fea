package ledger

import (
	"math/rand/v2"
	"time"
)

const (
	// PlaceholderLateFee is the fixed fee charged by the placeholder policy.
	PlaceholderLateFee FeeAmount = 10

	// PlaceholderLateFeeProbability is the chance per return that the placeholder policy charges.
	PlaceholderLateFeeProbability = 0.3
)

// ReturnEvent describes a return for the purpose of late fee assessment.
type ReturnEvent struct {
	Item       ItemView
	MemberID   MemberID
	ReturnedAt time.Time
}

// LateFeePolicy decides the late fee for a return. Non-positive results mean no fee.
//
// No due dates are modeled in the ledger, so a policy only gets the return itself.
// A due-date based calculation can be plugged in here without touching the engine.
type LateFeePolicy func(event ReturnEvent) FeeAmount

// PlaceholderLateFeePolicy charges PlaceholderLateFee with an independent probability of
// PlaceholderLateFeeProbability per return. It stands in for real due-date tracking and is not
// reproducible; tests should use FixedLateFeePolicy or NoLateFeePolicy.
func PlaceholderLateFeePolicy() LateFeePolicy {
	return RandomLateFeePolicy(rand.Float64)
}

// RandomLateFeePolicy is the placeholder policy with an injectable source of floats in [0, 1).
func RandomLateFeePolicy(draw func() float64) LateFeePolicy {
	return func(_ ReturnEvent) FeeAmount {
		if draw() < PlaceholderLateFeeProbability {
			return PlaceholderLateFee
		}

		return 0
	}
}

// FixedLateFeePolicy charges the same fee on every return.
func FixedLateFeePolicy(fee FeeAmount) LateFeePolicy {
	return func(_ ReturnEvent) FeeAmount {
		return fee
	}
}

// NoLateFeePolicy never charges.
func NoLateFeePolicy() LateFeePolicy {
	return FixedLateFeePolicy(0)
}
