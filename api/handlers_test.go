/*
handlers_test.go - HTTP-level tests for the earnings API

Exercises the full stack (router -> handlers -> ledger -> sqlite) with an
in-memory database and a fixed clock.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerflow/earnings-engine/earnings"
	"github.com/ledgerflow/earnings-engine/settings"
	"github.com/ledgerflow/earnings-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testToday = "2026-08-31"

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	return newTestServerWithWarning(t, nil)
}

func newTestServerWithWarning(t *testing.T, warning *settings.Warning) (*httptest.Server, *Handler) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	settingsStore := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))

	h := NewHandler(
		earnings.NewLedger(store),
		earnings.NewPeriodManager(store),
		settingsStore,
		earnings.NewAppState(earnings.DefaultSettings(testToday)),
		warning,
	)
	h.now = func() time.Time { return time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC) }

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, method, url string, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestCreateEntry_Success_ReturnsEarnedFlash(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN: Default rates (7.00 base + 23.15 tips = 30.15 effective)
	// WHEN: Logging 4.5 hours
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/entries",
		`{"date": "2026-08-30", "hours": "4.5", "note": "dinner shift"}`)

	// THEN: 4.5 x 30.15 = 135.675, displayed as 135.68
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "135.68", body["earned"])
	assert.NotZero(t, body["id"])

	// AND: The period total reflects the new entry
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4.5", body["total_hours"])
	assert.Equal(t, "135.68", body["projected_earnings"])
}

func TestCreateEntry_AcceptsNumericHours(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/entries",
		`{"date": "2026-08-30", "hours": 3}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "90.45", body["earned"])
}

func TestCreateEntry_InvalidHoursRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, hours := range []string{`"0"`, `"-2"`, `"abc"`, `""`} {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/entries",
			`{"date": "2026-08-30", "hours": `+hours+`}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "hours %s", hours)
		assert.Contains(t, body["error"], "positive number")
	}

	// State unchanged: no entry was written.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", body["total_hours"])
}

func TestListEntries_CurrentPeriodRecentFirst(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/api/entries", `{"date": "2026-08-29", "hours": 8}`)
	doJSON(t, http.MethodPost, srv.URL+"/api/entries", `{"date": "2026-08-30", "hours": 2}`)

	resp, err := http.Get(srv.URL + "/api/entries")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []EntryDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-08-30", entries[0].Date)
	assert.Equal(t, "2026-08-29", entries[1].Date)
	assert.Equal(t, testToday, entries[0].PeriodStart)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestUpdateSettings_ChangesEffectiveRate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/settings",
		`{"base_rate": "10.00", "use_tips": true, "avg_tips": "5.50"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "15.50", body["effective_rate"])
	assert.Equal(t, "Rate: $15.50/hr (Base: $10.00, Tips: $5.50)", body["rate_summary"])
}

func TestUpdateSettings_TipsToggleRestoresRate(t *testing.T) {
	srv, _ := newTestServer(t)

	// Disable tips: effective rate drops to base.
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/settings",
		`{"base_rate": "7.00", "use_tips": false, "avg_tips": "23.15"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "7.00", body["effective_rate"])

	// Re-enable without changing avg_tips: original rate restored.
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/settings",
		`{"base_rate": "7.00", "use_tips": true, "avg_tips": "23.15"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "30.15", body["effective_rate"])
}

func TestUpdateSettings_InvalidInputRejected_StateUnchanged(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, payload := range []string{
		`{"base_rate": "-1", "use_tips": true, "avg_tips": "5"}`,
		`{"base_rate": "7", "use_tips": true, "avg_tips": "-5"}`,
		`{"base_rate": "seven", "use_tips": true, "avg_tips": "5"}`,
	} {
		resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/settings", payload)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "payload %s", payload)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/settings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "30.15", body["effective_rate"], "defaults survived every rejected update")
}

func TestSettings_PersistedAfterUpdate(t *testing.T) {
	srv, h := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/settings",
		`{"base_rate": "10.00", "use_tips": false, "avg_tips": "5.50"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(h.Settings.Path())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, false, doc["use_tips"])
	assert.EqualValues(t, 10, doc["base_rate"])
	assert.NotContains(t, doc, "effective_rate", "derived rate is never persisted")
}

// =============================================================================
// PERIODS
// =============================================================================

func TestStartNewPeriod_RequiresConfirmation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/periods/rollover", `{"confirm": false}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Confirmation required", body["error"])
}

func TestStartNewPeriod_ArchivesAndAdvances(t *testing.T) {
	srv, h := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/api/entries", `{"date": "2026-08-30", "hours": 5}`)

	// Roll over on a later day.
	h.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/periods/rollover", `{"confirm": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testToday, body["from"])
	assert.Equal(t, "2026-09-01", body["to"])

	// New period starts empty; old entries stay exportable.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2026-09-01", body["current_period_start"])
	assert.Equal(t, "0", body["total_hours"])

	export, err := http.Get(srv.URL + "/api/export")
	require.NoError(t, err)
	defer export.Body.Close()
	buf := new(bytes.Buffer)
	buf.ReadFrom(export.Body)
	assert.Contains(t, buf.String(), testToday+",2026-08-30,5,")
}

// =============================================================================
// EXPORT / CLEAR
// =============================================================================

func TestExportData_PlainTextReport(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/api/entries", `{"date": "2026-08-30", "hours": "4.5", "note": "closing"}`)

	resp, err := http.Get(srv.URL + "/api/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "LedgerFlow Data Export", lines[0])
	assert.Equal(t, "Generated: 2026-08-31 09:30:00", lines[1])
	assert.Equal(t, "Rate: $30.15/hr (Base: $7.00, Tips: $23.15)", lines[2])
	assert.Equal(t, strings.Repeat("=", 50), lines[3])
	assert.Equal(t, "Period,Date,Hours,Note,Logged_At", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], testToday+",2026-08-30,4.5,closing,"))
}

func TestClearData_RequiresConfirmation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/data", `{"confirm": false}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClearData_WipesEverythingAndResetsPeriod(t *testing.T) {
	srv, h := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/api/entries", `{"date": "2026-08-30", "hours": 5}`)
	doJSON(t, http.MethodPost, srv.URL+"/api/periods/rollover", `{"confirm": true}`)

	h.now = func() time.Time { return time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC) }
	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/api/data", `{"confirm": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cleared", body["status"])
	assert.Equal(t, "2026-09-02", body["current_period_start"])

	// Every period now totals zero and the export has no data rows.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", body["total_hours"])

	export, err := http.Get(srv.URL + "/api/export")
	require.NoError(t, err)
	defer export.Body.Close()
	buf := new(bytes.Buffer)
	buf.ReadFrom(export.Body)
	assert.Len(t, strings.Split(buf.String(), "\n"), 5, "header only, no entries")
}

// =============================================================================
// WARNINGS
// =============================================================================

func TestSummary_DeliversSettingsWarningOnce(t *testing.T) {
	srv, _ := newTestServerWithWarning(t, &settings.Warning{
		Kind:          settings.WarnCorrupt,
		Message:       "Your settings file was corrupted. Defaults will be used.",
		QuarantinedTo: "/tmp/settings.json.corrupt",
	})

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	warning, ok := body["warning"].(map[string]any)
	require.True(t, ok, "first summary carries the warning")
	assert.Equal(t, "corrupt", warning["kind"])
	assert.Contains(t, warning["message"], "Defaults will be used")

	// Read-and-clear: the second summary is clean.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "warning")
}
