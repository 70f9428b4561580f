/*
Package sqlite provides the SQLite-backed implementation of earnings.Store.

PURPOSE:
  Persists entries and period markers in the embedded ledger database.
  The schema reproduces the original on-disk layout exactly, so an existing
  database keeps working:

    entries(id PK autoincrement, date TEXT, hours REAL, note TEXT,
            period_start TEXT, created_at TIMESTAMP default now)
    periods(period_start TEXT PK, archived INTEGER default 0)

SEMANTICS:
  - Entries are insert-only; no UPDATE path exists. Deletion happens only
    through DeleteAllData (the full clear).
  - ArchivePeriod uses INSERT OR REPLACE: re-archiving an existing period
    row overwrites it as archived.
  - A period without a row is active; IsPeriodArchived returns false.
  - Compact runs VACUUM; callers treat its failure as best-effort.

WAL MODE:
  The database is opened with WAL journaling and foreign keys on, matching
  how the original database was used for a single connection.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The application itself is
  single-user and synchronous; the mutex just keeps the store safe to share.

USAGE:
  store, err := sqlite.New("~/.ledgerflow.db")
  ...
  ledger := earnings.NewLedger(store)

SEE ALSO:
  - earnings/store.go: Interface definition and ordering contract
  - earnings/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ledgerflow/earnings-engine/earnings"
)

// Store implements earnings.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: the app is single-user and synchronous, and a
	// pooled ":memory:" database would otherwise be one-per-connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		hours REAL NOT NULL,
		note TEXT,
		period_start TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Period totals and listings filter on the period tag (hot path)
	CREATE INDEX IF NOT EXISTS idx_entries_period_start
		ON entries(period_start);

	CREATE TABLE IF NOT EXISTS periods (
		period_start TEXT PRIMARY KEY,
		archived INTEGER DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRIES
// =============================================================================

// InsertEntry adds a new entry. The store assigns created_at (UTC) and the
// autoincrement ID.
func (s *Store) InsertEntry(ctx context.Context, e earnings.Entry) (earnings.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (date, hours, note, period_start, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Date, e.Hours.InexactFloat64(), e.Note, e.PeriodStart, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry id: %w", err)
	}
	return earnings.EntryID(id), nil
}

func (s *Store) SumHours(ctx context.Context, periodStart string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM entries WHERE period_start = ?`,
		periodStart,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum hours: %w", err)
	}
	return decimal.NewFromFloat(total), nil
}

func (s *Store) EntriesByPeriod(ctx context.Context, periodStart string) ([]earnings.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Recent first; created_at ties broken by insertion recency.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, hours, note, period_start, created_at
		 FROM entries WHERE period_start = ?
		 ORDER BY date DESC, created_at DESC, id DESC`,
		periodStart,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Store) AllEntries(ctx context.Context) ([]earnings.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Chronological report order, oldest period first.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, hours, note, period_start, created_at
		 FROM entries
		 ORDER BY period_start ASC, date ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]earnings.Entry, error) {
	entries := []earnings.Entry{}
	for rows.Next() {
		var (
			e       earnings.Entry
			hours   float64
			note    sql.NullString
			created time.Time
		)
		if err := rows.Scan(&e.ID, &e.Date, &hours, &note, &e.PeriodStart, &created); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Hours = decimal.NewFromFloat(hours)
		e.Note = note.String
		e.CreatedAt = created.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// PERIODS
// =============================================================================

// ArchivePeriod marks a period as archived, overwriting an existing row.
func (s *Store) ArchivePeriod(ctx context.Context, periodStart string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO periods (period_start, archived) VALUES (?, 1)`,
		periodStart,
	)
	if err != nil {
		return fmt.Errorf("archive period: %w", err)
	}
	return nil
}

// IsPeriodArchived reports whether the period was explicitly archived.
// Absence of a row means active.
func (s *Store) IsPeriodArchived(ctx context.Context, periodStart string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var archived int
	err := s.db.QueryRowContext(ctx,
		`SELECT archived FROM periods WHERE period_start = ?`,
		periodStart,
	).Scan(&archived)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query period: %w", err)
	}
	return archived != 0, nil
}

// =============================================================================
// CLEAR / COMPACT
// =============================================================================

// DeleteAllData removes every entry and period record in one transaction.
// Idempotent: clearing an empty database succeeds.
func (s *Store) DeleteAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM periods`); err != nil {
		return fmt.Errorf("delete periods: %w", err)
	}
	return tx.Commit()
}

// Compact reclaims storage after a delete. Best-effort.
func (s *Store) Compact(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `VACUUM`)
	return err
}
