// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/earnings-engine/earnings"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	entries  []earnings.Entry
	archived map[string]bool
	nextID   earnings.EntryID

	// Now is the clock used for created_at assignment. Overridable in tests.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		archived: make(map[string]bool),
		nextID:   1,
		Now:      time.Now,
	}
}

func (m *Memory) InsertEntry(_ context.Context, e earnings.Entry) (earnings.EntryID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextID
	e.CreatedAt = m.Now().UTC()
	m.nextID++
	m.entries = append(m.entries, e)
	return e.ID, nil
}

func (m *Memory) SumHours(_ context.Context, periodStart string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, e := range m.entries {
		if e.PeriodStart == periodStart {
			total = total.Add(e.Hours)
		}
	}
	return total, nil
}

func (m *Memory) EntriesByPeriod(_ context.Context, periodStart string) ([]earnings.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []earnings.Entry{}
	for _, e := range m.entries {
		if e.PeriodStart == periodStart {
			out = append(out, e)
		}
	}

	// Recent first; created_at ties broken by insertion recency (higher ID).
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) AllEntries(_ context.Context) ([]earnings.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]earnings.Entry, len(m.entries))
	copy(out, m.entries)

	// Chronological report order: oldest period first, then date, then ID.
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodStart != out[j].PeriodStart {
			return out[i].PeriodStart < out[j].PeriodStart
		}
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ArchivePeriod(_ context.Context, periodStart string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived[periodStart] = true
	return nil
}

func (m *Memory) IsPeriodArchived(_ context.Context, periodStart string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.archived[periodStart], nil
}

func (m *Memory) DeleteAllData(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.archived = make(map[string]bool)
	return nil
}

func (m *Memory) Compact(_ context.Context) error {
	return nil
}
