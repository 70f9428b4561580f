/*
store.go - Low-level persistence interface for entries and periods

PURPOSE:
  Defines the storage contract the ledger and period manager are built on.
  Implementations:
    - store/sqlite: SQLite-backed, the production store
    - earnings/store: in-memory, for tests

ORDERING CONTRACT:
  Implementations own the two ordering conventions:
    - EntriesByPeriod: date DESC, created_at DESC, id DESC (recent first,
      ties broken by insertion recency)
    - AllEntries: period_start ASC, date ASC, id ASC (chronological report
      order, oldest period first)
  The two are intentionally opposite: one backs a live "recent first" view,
  the other a full chronological export.
*/
package earnings

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store persists entries and period markers.
type Store interface {
	// InsertEntry adds a new entry and returns its assigned ID. The entry's
	// CreatedAt is assigned by the store; the caller's value is ignored.
	InsertEntry(ctx context.Context, e Entry) (EntryID, error)

	// SumHours returns the total hours for a period. Zero matching rows
	// yields decimal zero, not an error.
	SumHours(ctx context.Context, periodStart string) (decimal.Decimal, error)

	// EntriesByPeriod returns all entries tagged with the period, most
	// recent first.
	EntriesByPeriod(ctx context.Context, periodStart string) ([]Entry, error)

	// AllEntries returns every entry across every period in chronological
	// report order.
	AllEntries(ctx context.Context) ([]Entry, error)

	// ArchivePeriod marks a period as archived, inserting or overwriting
	// its row.
	ArchivePeriod(ctx context.Context, periodStart string) error

	// IsPeriodArchived reports whether a period has been explicitly
	// archived. A period with no row is active (absence means unarchived).
	IsPeriodArchived(ctx context.Context, periodStart string) (bool, error)

	// DeleteAllData removes every entry and every period record.
	// Idempotent: deleting from an empty store succeeds.
	DeleteAllData(ctx context.Context) error

	// Compact reclaims storage after a delete. Best-effort: callers swallow
	// its failure.
	Compact(ctx context.Context) error
}
