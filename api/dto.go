/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

RAW INPUTS:
  The presentation layer submits numbers as raw user input. RawNumber
  accepts either a JSON string or a JSON number and preserves the text, so
  validation (and its human-readable failure reason) happens in one place:
  the earnings parsing boundary.

DECIMALS:
  Monetary and hour values are serialized as strings to keep them exact;
  clients format for display.
*/
package api

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// RAW INPUT
// =============================================================================

// RawNumber holds a user-supplied numeric input as text. It unmarshals from
// either a JSON string ("4.5") or a JSON number (4.5); anything else is
// rejected at decode time.
type RawNumber string

func (n *RawNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = RawNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*n = RawNumber(num.String())
		return nil
	}

	return fmt.Errorf("expected a number or string, got %s", data)
}

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EntryDTO represents a logged entry in API responses.
type EntryDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Hours       string `json:"hours"`
	Note        string `json:"note,omitempty"`
	PeriodStart string `json:"period_start"`
	CreatedAt   string `json:"created_at"`
}

// CreateEntryRequest is the request to log hours. Date defaults to today
// when omitted; Note is optional.
type CreateEntryRequest struct {
	Date  string    `json:"date"`
	Hours RawNumber `json:"hours"`
	Note  string    `json:"note"`
}

// CreateEntryResponse confirms a logged entry. Earned is the projected
// amount for this entry at the current effective rate, rounded to 2
// decimals for the transient "+ $X today" display.
type CreateEntryResponse struct {
	ID     int64  `json:"id"`
	Earned string `json:"earned"`
}

// SettingsDTO represents the current configuration plus its derived rate.
type SettingsDTO struct {
	CurrentPeriodStart string `json:"current_period_start"`
	UseTips            bool   `json:"use_tips"`
	BaseRate           string `json:"base_rate"`
	AvgTips            string `json:"avg_tips"`

	// Derived, never persisted.
	EffectiveRate string `json:"effective_rate"`
	RateSummary   string `json:"rate_summary"`
}

// UpdateSettingsRequest is the request to change the rate configuration.
type UpdateSettingsRequest struct {
	BaseRate RawNumber `json:"base_rate"`
	UseTips  bool      `json:"use_tips"`
	AvgTips  RawNumber `json:"avg_tips"`
}

// SummaryDTO is the pull-based refresh payload: everything the display
// needs after any mutating operation.
type SummaryDTO struct {
	CurrentPeriodStart string `json:"current_period_start"`
	TotalHours         string `json:"total_hours"`
	ProjectedEarnings  string `json:"projected_earnings"`
	EffectiveRate      string `json:"effective_rate"`
	RateSummary        string `json:"rate_summary"`

	// Warning carries a one-shot settings-load warning, cleared once read.
	Warning *WarningDTO `json:"warning,omitempty"`
}

// WarningDTO surfaces a non-fatal settings problem to the user.
type WarningDTO struct {
	Kind          string `json:"kind"`
	Message       string `json:"message"`
	QuarantinedTo string `json:"quarantined_to,omitempty"`
}

// ConfirmRequest models the explicit user confirmation required before
// destructive operations (rollover, clear all).
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// PeriodTransitionDTO reports a completed rollover.
type PeriodTransitionDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ErrorResponse is the error payload for all failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
