package earnings

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE CALCULATOR - Pure derivation of the effective hourly rate
// =============================================================================

// EffectiveRate derives the hourly rate used for projections:
//
//	base + (avgTips if useTips else 0)
//
// The result is never persisted and must be recomputed whenever any input
// changes. Inputs are assumed already validated (non-negative); validation
// belongs to the settings-update operation, not here.
func EffectiveRate(base decimal.Decimal, useTips bool, avgTips decimal.Decimal) decimal.Decimal {
	if useTips {
		return base.Add(avgTips)
	}
	return base
}

// Projected returns hours × rate, the projected earnings for a set of hours.
// The value is exact; rounding to 2 decimals is display-only.
func Projected(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate)
}

// =============================================================================
// RAW-INPUT PARSING - The validation boundary for user-supplied numbers
// =============================================================================

// ParseHours parses a raw hours input. Non-numeric, zero, and negative
// values are rejected with an InvalidHoursError.
func ParseHours(raw string) (decimal.Decimal, error) {
	h, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !h.IsPositive() {
		return decimal.Zero, &InvalidHoursError{Raw: raw}
	}
	return h, nil
}

// ParseRate parses a raw rate input (base rate or average tips). Non-numeric
// and negative values are rejected with an InvalidRateError carrying the
// field name for the user-facing message.
func ParseRate(field, raw string) (decimal.Decimal, error) {
	r, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &InvalidRateError{Field: field, Raw: raw, cause: ErrNotANumber}
	}
	if r.IsNegative() {
		return decimal.Zero, &InvalidRateError{Field: field, Raw: raw, cause: ErrNegativeRate}
	}
	return r, nil
}
