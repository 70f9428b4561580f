/*
ledger.go - Append-mostly log of worked hours

PURPOSE:
  The Ledger is the source of truth for logged work sessions. Entries are
  created once, never updated, and deleted only by a full data clear.
  Totals are always computed by summing entries - there is no cached
  "total hours" field that can get out of sync.

INVARIANTS:
  1. Entries are immutable once written
  2. An entry's period tag is permanent: rollover never moves, copies, or
     recomputes entries
  3. Hours are strictly positive; zero and negative are rejected at the
     boundary before any row is written
  4. TotalHours for an empty period is zero, never an absent value

CLEAR SEMANTICS:
  ClearAll deletes everything, then compacts the underlying storage as a
  best-effort optimization. A compaction failure never fails the clear; a
  failure of the primary delete does, with no claim of success (rows may
  have been partially removed - accepted limitation, not masked).

SEE ALSO:
  - store.go: Persistence interface with the ordering contract
  - period.go: Rollover and archival
*/
package earnings

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER - Operations over logged entries
// =============================================================================

// Ledger is the queryable store of time entries.
type Ledger interface {
	// AddEntry validates and inserts a new entry, returning its ID.
	// Hours must be strictly positive.
	AddEntry(ctx context.Context, date string, hours decimal.Decimal, note, periodStart string) (EntryID, error)

	// TotalHours sums the hours of all entries in a period.
	TotalHours(ctx context.Context, periodStart string) (decimal.Decimal, error)

	// ListEntries returns a period's entries, most recent first.
	ListEntries(ctx context.Context, periodStart string) ([]Entry, error)

	// ExportAll returns every entry across every period in chronological
	// report order.
	ExportAll(ctx context.Context) ([]Entry, error)

	// ClearAll irreversibly deletes every entry and period record.
	ClearAll(ctx context.Context) error
}

// =============================================================================
// DEFAULT LEDGER - Implementation using Store
// =============================================================================

type DefaultLedger struct {
	Store Store
}

func NewLedger(store Store) *DefaultLedger {
	return &DefaultLedger{Store: store}
}

func (l *DefaultLedger) AddEntry(ctx context.Context, date string, hours decimal.Decimal, note, periodStart string) (EntryID, error) {
	if !hours.IsPositive() {
		return 0, &InvalidHoursError{Raw: hours.String()}
	}

	id, err := l.Store.InsertEntry(ctx, Entry{
		Date:        date,
		Hours:       hours,
		Note:        note,
		PeriodStart: periodStart,
	})
	if err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}
	return id, nil
}

func (l *DefaultLedger) TotalHours(ctx context.Context, periodStart string) (decimal.Decimal, error) {
	return l.Store.SumHours(ctx, periodStart)
}

func (l *DefaultLedger) ListEntries(ctx context.Context, periodStart string) ([]Entry, error) {
	return l.Store.EntriesByPeriod(ctx, periodStart)
}

func (l *DefaultLedger) ExportAll(ctx context.Context) ([]Entry, error) {
	return l.Store.AllEntries(ctx)
}

func (l *DefaultLedger) ClearAll(ctx context.Context) error {
	if err := l.Store.DeleteAllData(ctx); err != nil {
		return &ClearFailedError{Cause: err}
	}

	// Compaction is an optimization, not part of the clear.
	_ = l.Store.Compact(ctx)
	return nil
}
