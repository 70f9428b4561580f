package settings_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerflow/earnings-engine/earnings"
	"github.com/ledgerflow/earnings-engine/settings"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) (*settings.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	return settings.NewStore(path), path
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoad_AbsentFileReturnsDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	cfg, warning := store.Load()

	assert.Nil(t, warning)
	assert.True(t, cfg.UseTips)
	assert.Equal(t, "7.00", cfg.BaseRate.StringFixed(2))
	assert.Equal(t, "23.15", cfg.AvgTips.StringFixed(2))
	assert.Equal(t, earnings.Today(), cfg.CurrentPeriodStart)
}

func TestLoad_CorruptFileQuarantinedAndDefaultsReturned(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{not json!`), 0o644))

	cfg, warning := store.Load()

	// Defaults in use, no error escaped.
	assert.True(t, cfg.UseTips)
	assert.Equal(t, "7.00", cfg.BaseRate.StringFixed(2))

	// The broken file was renamed aside with a recognizable suffix.
	require.NotNil(t, warning)
	assert.Equal(t, settings.WarnCorrupt, warning.Kind)
	assert.Equal(t, path+settings.CorruptSuffix, warning.QuarantinedTo)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt file should have been moved")

	moved, err := os.ReadFile(path + settings.CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, `{not json!`, string(moved), "original bytes preserved for diagnosis")
}

func TestLoad_WrongTypedKeysFallBackPerKey(t *testing.T) {
	store, path := newTestStore(t)
	doc := `{"current_period_start": "2026-08-01", "use_tips": "yes", "base_rate": 12.5, "avg_tips": -3}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, warning := store.Load()

	assert.Nil(t, warning, "well-formed JSON never warns")
	assert.Equal(t, "2026-08-01", cfg.CurrentPeriodStart)
	assert.True(t, cfg.UseTips, "unparseable use_tips keeps its default")
	assert.Equal(t, "12.50", cfg.BaseRate.StringFixed(2))
	assert.Equal(t, "23.15", cfg.AvgTips.StringFixed(2), "negative avg_tips keeps its default")
}

// =============================================================================
// SAVE / ROUND-TRIP
// =============================================================================

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	cfg := earnings.Settings{
		CurrentPeriodStart: "2026-08-01",
		UseTips:            false,
		BaseRate:           dec("15.25"),
		AvgTips:            dec("4.75"),
	}
	require.NoError(t, store.Save(cfg))

	loaded, warning := store.Load()
	assert.Nil(t, warning)
	assert.Equal(t, cfg.CurrentPeriodStart, loaded.CurrentPeriodStart)
	assert.Equal(t, cfg.UseTips, loaded.UseTips)
	assert.True(t, cfg.BaseRate.Equal(loaded.BaseRate))
	assert.True(t, cfg.AvgTips.Equal(loaded.AvgTips), "avg_tips persists even while tips are disabled")

	// Idempotent: save(load()) then load() yields the same four fields.
	require.NoError(t, store.Save(loaded))
	again, _ := store.Load()
	assert.Equal(t, loaded, again)
}

func TestSave_DerivedRateNeverPersisted(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Save(earnings.DefaultSettings("2026-08-01")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc, 4)
	for _, key := range []string{"current_period_start", "use_tips", "base_rate", "avg_tips"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "effective_rate")

	// Rates are written as plain JSON numbers, not quoted strings.
	assert.Equal(t, "7", string(doc["base_rate"]))
	assert.Equal(t, "23.15", string(doc["avg_tips"]))
}

func TestSave_UnknownKeysPreserved(t *testing.T) {
	store, path := newTestStore(t)
	doc := `{"base_rate": 9, "theme": "dark", "window": {"w": 1000, "h": 750}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, _ := store.Load()
	require.NoError(t, store.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var saved map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Contains(t, saved, "theme")
	assert.Contains(t, saved, "window")
	assert.JSONEq(t, `{"w": 1000, "h": 750}`, string(saved["window"]))
}
