/*
handlers.go - HTTP API handlers for the earnings tracker core

PURPOSE:
  Exposes the earnings core to the presentation layer. Handles HTTP
  request/response, JSON serialization, raw-input validation, and delegates
  to the domain logic.

ENDPOINTS:
  GET    /api/summary           Current period totals + effective rate
  GET    /api/entries           Current period entries, recent first
  POST   /api/entries           Log hours (raw inputs, validated)
  GET    /api/settings          Current configuration + derived rate
  PUT    /api/settings          Update configuration (raw inputs, validated)
  POST   /api/periods/rollover  Archive current period, start today
  GET    /api/export            Plain-text chronological report
  DELETE /api/data              Clear all entries and periods

REFRESH CONTRACT:
  The client re-queries /api/summary and /api/entries after every mutating
  operation (pull-based refresh). Settings are saved after every mutation
  and after every summary load, keeping current_period_start durable.

ERROR HANDLING:
  - 400: Validation failures (non-positive hours, negative rates), with a
         human-readable reason; prior state unchanged
  - 500: Storage failures, including a failed clear (with underlying cause)
  Settings-load problems are warnings, never errors: they surface once on
  the summary payload. No failure here is fatal to the process.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ledgerflow/earnings-engine/earnings"
	"github.com/ledgerflow/earnings-engine/settings"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger   earnings.Ledger
	Periods  *earnings.PeriodManager
	Settings *settings.Store

	// mu serializes state mutation: the app is single-user and every
	// operation runs to completion before the next is accepted.
	mu    sync.Mutex
	state *earnings.AppState

	// warning holds the one-shot settings-load warning until the summary
	// endpoint delivers it.
	warning *settings.Warning

	now func() time.Time
}

// NewHandler creates a handler over a loaded application state. warning may
// be nil; when present it is surfaced once via GET /api/summary.
func NewHandler(ledger earnings.Ledger, periods *earnings.PeriodManager, st *settings.Store, state *earnings.AppState, warning *settings.Warning) *Handler {
	return &Handler{
		Ledger:   ledger,
		Periods:  periods,
		Settings: st,
		state:    state,
		warning:  warning,
		now:      time.Now,
	}
}

// saveSettings persists the live settings. Save failures are reported and
// swallowed: a failed save must not crash or fail the user's operation.
func (h *Handler) saveSettings() {
	if err := h.Settings.Save(h.state.Settings); err != nil {
		log.Printf("warning: failed to save settings: %v", err)
	}
}

// =============================================================================
// SUMMARY
// =============================================================================

// GetSummary returns the live totals for the current period.
// GET /api/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	period := h.state.CurrentPeriodStart()
	total, err := h.Ledger.TotalHours(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load period totals", err)
		return
	}

	rate := h.state.EffectiveRate()
	dto := SummaryDTO{
		CurrentPeriodStart: period,
		TotalHours:         total.String(),
		ProjectedEarnings:  earnings.Projected(total, rate).StringFixed(2),
		EffectiveRate:      rate.StringFixed(2),
		RateSummary:        earnings.RateSummary(h.state.Settings),
	}

	// Deliver the settings-load warning exactly once.
	if h.warning != nil {
		dto.Warning = &WarningDTO{
			Kind:          string(h.warning.Kind),
			Message:       h.warning.Message,
			QuarantinedTo: h.warning.QuarantinedTo,
		}
		h.warning = nil
	}

	// Keep current_period_start durable after every load.
	h.saveSettings()

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ENTRIES
// =============================================================================

// ListEntries returns the current period's entries, most recent first.
// GET /api/entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	period := h.state.CurrentPeriodStart()
	h.mu.Unlock()

	entries, err := h.Ledger.ListEntries(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// CreateEntry logs hours against the current period.
// POST /api/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hours, err := earnings.ParseHours(string(req.Hours))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Hours must be a positive number", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	date := req.Date
	if date == "" {
		date = h.now().Format(earnings.DateLayout)
	}

	id, err := h.Ledger.AddEntry(r.Context(), date, hours, req.Note, h.state.CurrentPeriodStart())
	if err != nil {
		if earnings.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Hours must be a positive number", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to add entry", err)
		return
	}

	h.saveSettings()

	writeJSON(w, http.StatusCreated, CreateEntryResponse{
		ID:     int64(id),
		Earned: earnings.Projected(hours, h.state.EffectiveRate()).StringFixed(2),
	})
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the current configuration plus the derived rate.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.settingsDTO())
}

// UpdateSettings applies a validated configuration change.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	base, err := earnings.ParseRate("base_rate", string(req.BaseRate))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please enter valid numbers for rates", err)
		return
	}
	tips, err := earnings.ParseRate("avg_tips", string(req.AvgTips))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please enter valid numbers for rates", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.UpdateRates(base, req.UseTips, tips); err != nil {
		writeError(w, http.StatusBadRequest, "Rates cannot be negative", err)
		return
	}

	h.saveSettings()

	writeJSON(w, http.StatusOK, h.settingsDTO())
}

func (h *Handler) settingsDTO() SettingsDTO {
	s := h.state.Settings
	return SettingsDTO{
		CurrentPeriodStart: s.CurrentPeriodStart,
		UseTips:            s.UseTips,
		BaseRate:           s.BaseRate.StringFixed(2),
		AvgTips:            s.AvgTips.StringFixed(2),
		EffectiveRate:      s.EffectiveRate().StringFixed(2),
		RateSummary:        earnings.RateSummary(s),
	}
}

// =============================================================================
// PERIODS
// =============================================================================

// StartNewPeriod archives the current period and starts a new one dated
// today. Requires explicit confirmation in the request body.
// POST /api/periods/rollover
func (h *Handler) StartNewPeriod(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "Confirmation required", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	today := h.now().Format(earnings.DateLayout)
	transition, err := h.Periods.StartNewPeriod(r.Context(), h.state.CurrentPeriodStart(), today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start new period", err)
		return
	}

	h.state.AdvancePeriod(transition)
	h.saveSettings()

	writeJSON(w, http.StatusOK, PeriodTransitionDTO{
		From: transition.From,
		To:   transition.To,
	})
}

// =============================================================================
// EXPORT / CLEAR
// =============================================================================

// ExportData returns the plain-text chronological report of all entries.
// GET /api/export
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.ExportAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export data", err)
		return
	}

	h.mu.Lock()
	report := earnings.Report(entries, h.state.Settings, h.now())
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report))
}

// ClearData permanently deletes every entry and period record, then resets
// the current period to today. Requires explicit confirmation.
// DELETE /api/data
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "Confirmation required", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Ledger.ClearAll(r.Context()); err != nil {
		// The primary delete failed; no claim of success.
		writeError(w, http.StatusInternalServerError, "Failed to clear data", err)
		return
	}

	today := h.now().Format(earnings.DateLayout)
	h.state.ResetPeriod(today)
	h.saveSettings()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "cleared",
		"current_period_start": today,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func toEntryDTOs(entries []earnings.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EntryDTO{
			ID:          int64(e.ID),
			Date:        e.Date,
			Hours:       e.Hours.String(),
			Note:        e.Note,
			PeriodStart: e.PeriodStart,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
