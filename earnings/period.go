package earnings

import (
	"context"
	"fmt"
)

// =============================================================================
// PERIOD MANAGER - Rollover and archival
// =============================================================================

// PeriodManager tracks archived periods and performs rollover. Exactly one
// period is current at any time; that value lives in AppState/Settings, so
// the manager takes the current period as an argument rather than holding it.
type PeriodManager struct {
	Store Store
}

func NewPeriodManager(store Store) *PeriodManager {
	return &PeriodManager{Store: store}
}

// StartNewPeriod archives the current period and starts a new one dated
// today. Insert-or-replace semantics: an existing row for the old period is
// overwritten as archived. Entries tagged with the old period keep that tag
// permanently.
//
// User confirmation is a precondition the caller must already have obtained;
// the manager performs none.
func (pm *PeriodManager) StartNewPeriod(ctx context.Context, current, today string) (PeriodTransition, error) {
	if err := pm.Store.ArchivePeriod(ctx, current); err != nil {
		return PeriodTransition{}, fmt.Errorf("archive period %s: %w", current, err)
	}
	return PeriodTransition{From: current, To: today}, nil
}

// IsArchived reports whether a period was explicitly closed via rollover.
// A period with no row is still valid and counts as active.
func (pm *PeriodManager) IsArchived(ctx context.Context, periodStart string) (bool, error) {
	return pm.Store.IsPeriodArchived(ctx, periodStart)
}
