/*
errors.go - Centralized error types for the earnings core

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer classifies these to pick HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - Rejected user input (hours, rates)
  2. Storage errors - Ledger/period store failures

NOTE:
  Settings-document problems (corruption, unreadable file) are NOT errors:
  the settings store quarantines and falls back to defaults, reporting a
  Warning value instead. See the settings package.

USAGE:
  if errors.Is(err, earnings.ErrInvalidHours) {
      // reject with 400, state unchanged
  }
*/
package earnings

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidHours is returned when entry hours are zero, negative, or
	// not a number. The entry is rejected and no state changes.
	ErrInvalidHours = errors.New("hours must be a positive number")

	// ErrNegativeRate is returned when a rate input is negative.
	ErrNegativeRate = errors.New("rates cannot be negative")

	// ErrNotANumber is returned when a numeric input cannot be parsed.
	ErrNotANumber = errors.New("not a valid number")

	// ErrClearFailed is returned when the primary delete of a clear-all
	// operation fails. Best-effort compaction failures are swallowed and
	// never produce this error.
	ErrClearFailed = errors.New("failed to clear data")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidHoursError reports a rejected hours input with the raw value.
type InvalidHoursError struct {
	Raw string
}

func (e *InvalidHoursError) Error() string {
	return fmt.Sprintf("invalid hours %q: hours must be a positive number", e.Raw)
}

func (e *InvalidHoursError) Unwrap() error { return ErrInvalidHours }

// InvalidRateError reports a rejected rate input (base rate or average tips).
type InvalidRateError struct {
	Field string // "base_rate" or "avg_tips"
	Raw   string
	cause error // ErrNegativeRate or ErrNotANumber
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Raw, e.cause)
}

func (e *InvalidRateError) Unwrap() error { return e.cause }

// ClearFailedError reports a failed clear-all with its underlying cause.
// A failed clear may have partially deleted rows; the error is surfaced
// rather than masked.
type ClearFailedError struct {
	Cause error
}

func (e *ClearFailedError) Error() string {
	return fmt.Sprintf("failed to clear data: %v", e.Cause)
}

func (e *ClearFailedError) Unwrap() error { return ErrClearFailed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid user input.
// Validation failures are always recoverable: the operation was rejected
// and prior state is unchanged.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidHours) ||
		errors.Is(err, ErrNegativeRate) ||
		errors.Is(err, ErrNotANumber)
}
