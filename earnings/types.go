/*
Package earnings provides the core data model for the hourly-earnings tracker.

PURPOSE:
  This package contains the domain types and operations for logging worked
  hours, deriving projected earnings from a configurable rate, and grouping
  entries into pay periods that can be archived and restarted.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: An immutable logged work session (hours on a date, in a period)
  - Settings: The four persisted configuration values
  - Date: ISO date strings used as period identifiers and entry dates

DESIGN PRINCIPLES:
  1. Derived values are never persisted: the effective rate is always
     recomputed from base rate, tips flag, and average tips (rate.go)
  2. Entries are append-mostly: created once, never updated, deleted only
     by a full data clear
  3. Precision: Uses decimal.Decimal for rates, hours, and money to avoid
     floating-point drift in totals

SEE ALSO:
  - rate.go: Effective-rate derivation
  - ledger.go: Entry persistence operations
  - period.go: Period rollover and archival
  - state.go: The passed-around application state
*/
package earnings

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used for entry dates and period keys.
const DateLayout = "2006-01-02"

// Today returns the current local date in ISO form.
func Today() string {
	return time.Now().Format(DateLayout)
}

// =============================================================================
// ENTRY - One logged work session
// =============================================================================

// EntryID is the store-assigned identifier of an Entry.
type EntryID int64

// Entry represents one logged work session.
//
// Entries are never updated after creation. The PeriodStart tag is assigned
// at creation time from the then-active period and is never reassigned, even
// after a rollover.
type Entry struct {
	ID    EntryID
	Date  string // ISO date, user-editable, not validated against the calendar
	Hours decimal.Decimal
	Note  string

	// PeriodStart identifies the period active when the entry was created.
	PeriodStart string

	// CreatedAt is store-assigned and used only as an ordering tiebreaker.
	CreatedAt time.Time
}

// =============================================================================
// SETTINGS - Persisted configuration (singleton per installation)
// =============================================================================

// Settings holds the four persisted configuration values.
//
// The derived effective rate is intentionally NOT a field here: anything in
// this struct gets serialized, and a stored stale rate could later be misread
// as authoritative. Use EffectiveRate() / AppState instead.
type Settings struct {
	CurrentPeriodStart string
	UseTips            bool
	BaseRate           decimal.Decimal

	// AvgTips is retained even while UseTips is false, so toggling tips back
	// on restores the prior value.
	AvgTips decimal.Decimal
}

// Default configuration values, matching a fresh installation.
var (
	DefaultBaseRate = decimal.NewFromFloat(7.00)
	DefaultAvgTips  = decimal.NewFromFloat(23.15)
)

// DefaultSettings returns the settings used when no settings document exists
// (or when the existing one is unusable). The current period starts today.
func DefaultSettings(today string) Settings {
	return Settings{
		CurrentPeriodStart: today,
		UseTips:            true,
		BaseRate:           DefaultBaseRate,
		AvgTips:            DefaultAvgTips,
	}
}

// EffectiveRate returns the derived hourly rate for these settings.
func (s Settings) EffectiveRate() decimal.Decimal {
	return EffectiveRate(s.BaseRate, s.UseTips, s.AvgTips)
}

// =============================================================================
// PERIOD TRANSITION - Result of a rollover
// =============================================================================

// PeriodTransition records a completed rollover: From is the period that was
// archived, To is the new current period.
type PeriodTransition struct {
	From string
	To   string
}
