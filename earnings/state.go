/*
state.go - Explicit application state

PURPOSE:
  AppState is the single in-memory copy of the settings (and with them the
  current period). It is passed around explicitly rather than living in
  package-level globals; all mutation funnels through the operations below,
  which preserves the single-writer invariant without language-level globals.

DERIVED STATE:
  The effective rate is a computed accessor over the three persisted inputs.
  It is recomputed on every read, so it can never go stale across a mutation
  and can never accidentally be serialized.
*/
package earnings

import "github.com/shopspring/decimal"

// AppState holds the live settings for the running application.
type AppState struct {
	Settings Settings
}

func NewAppState(s Settings) *AppState {
	return &AppState{Settings: s}
}

// EffectiveRate returns the current derived hourly rate.
func (a *AppState) EffectiveRate() decimal.Decimal {
	return a.Settings.EffectiveRate()
}

// CurrentPeriodStart returns the active period identifier.
func (a *AppState) CurrentPeriodStart() string {
	return a.Settings.CurrentPeriodStart
}

// UpdateRates applies a validated settings update. Negative rates are
// rejected and the prior state is left unchanged. AvgTips is stored even
// when useTips is false, so toggling tips back on restores the prior
// effective rate.
func (a *AppState) UpdateRates(base decimal.Decimal, useTips bool, avgTips decimal.Decimal) error {
	if base.IsNegative() {
		return &InvalidRateError{Field: "base_rate", Raw: base.String(), cause: ErrNegativeRate}
	}
	if avgTips.IsNegative() {
		return &InvalidRateError{Field: "avg_tips", Raw: avgTips.String(), cause: ErrNegativeRate}
	}

	a.Settings.BaseRate = base
	a.Settings.AvgTips = avgTips
	a.Settings.UseTips = useTips
	return nil
}

// AdvancePeriod records a completed rollover in the live settings.
func (a *AppState) AdvancePeriod(t PeriodTransition) {
	a.Settings.CurrentPeriodStart = t.To
}

// ResetPeriod restarts the current period, used after a full data clear.
func (a *AppState) ResetPeriod(today string) {
	a.Settings.CurrentPeriodStart = today
}
