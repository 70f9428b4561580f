/*
Package settings persists the configuration document.

PURPOSE:
  Reads and writes the small JSON settings file (base rate, tips flag,
  average tips, current period start) and tolerates a broken one: loading
  NEVER returns an error to the caller.

CORRUPTION HANDLING:
  A malformed file is quarantined - renamed aside with a ".corrupt" suffix
  so the original bytes survive for diagnosis - and defaults are returned.
  If the rename itself fails, defaults are still returned; the warning is a
  side channel, never a control-flow dependency.

ROUND-TRIP SAFETY:
  Unknown keys found in the document are retained across Load/Save so the
  store does not destroy unrelated data. The derived effective rate is never
  written: only the four persisted keys (plus retained unknown keys) appear
  in the file.

ATOMICITY:
  Save writes a temp file in the same directory and renames it over the
  document, so a crash mid-write leaves either the old or the new content.
  The tolerant loader still assumes this can occasionally fail.
*/
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/earnings-engine/earnings"
)

// The four persisted keys. The derived rate is intentionally not among them.
const (
	keyCurrentPeriodStart = "current_period_start"
	keyUseTips            = "use_tips"
	keyBaseRate           = "base_rate"
	keyAvgTips            = "avg_tips"
)

// CorruptSuffix is appended to a quarantined settings file.
const CorruptSuffix = ".corrupt"

// =============================================================================
// WARNINGS - Non-fatal load problems, surfaced to the user as a side channel
// =============================================================================

type WarningKind string

const (
	// WarnCorrupt: the document was malformed and has been quarantined
	// (or quarantine was attempted); defaults are in use.
	WarnCorrupt WarningKind = "corrupt"

	// WarnUnreadable: the document exists but could not be read for
	// environmental reasons (permissions, disk); defaults are in use.
	WarnUnreadable WarningKind = "unreadable"
)

// Warning describes a non-fatal settings-load problem.
type Warning struct {
	Kind    WarningKind
	Message string

	// QuarantinedTo is the path the broken file was renamed to, empty if
	// quarantining failed or did not apply.
	QuarantinedTo string
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the settings document at a fixed path.
type Store struct {
	path string

	// extra holds unknown keys from the last loaded document so Save does
	// not drop them.
	extra map[string]json.RawMessage
}

func NewStore(path string) *Store {
	return &Store{path: path, extra: make(map[string]json.RawMessage)}
}

// Path returns the location of the settings document.
func (s *Store) Path() string { return s.path }

// Load reads the configuration document. It never fails: an absent file
// yields defaults, a malformed file is quarantined and yields defaults with
// a warning, and any other read error yields defaults with a warning.
func (s *Store) Load() (earnings.Settings, *Warning) {
	defaults := earnings.DefaultSettings(earnings.Today())

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return defaults, &Warning{
			Kind:    WarnUnreadable,
			Message: fmt.Sprintf("Could not read settings file: %v. Defaults will be used.", err),
		}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return defaults, s.quarantine()
	}

	loaded := defaults
	extra := make(map[string]json.RawMessage)
	for k, v := range doc {
		switch k {
		case keyCurrentPeriodStart:
			var ps string
			if json.Unmarshal(v, &ps) == nil && ps != "" {
				loaded.CurrentPeriodStart = ps
			}
		case keyUseTips:
			var ut bool
			if json.Unmarshal(v, &ut) == nil {
				loaded.UseTips = ut
			}
		case keyBaseRate:
			if d, ok := decodeRate(v); ok {
				loaded.BaseRate = d
			}
		case keyAvgTips:
			if d, ok := decodeRate(v); ok {
				loaded.AvgTips = d
			}
		default:
			extra[k] = v
		}
	}
	s.extra = extra

	return loaded, nil
}

// Save serializes the four persisted fields (never the derived rate) plus
// any retained unknown keys, overwriting the document via temp-file rename.
func (s *Store) Save(cfg earnings.Settings) error {
	doc := make(map[string]json.RawMessage, len(s.extra)+4)
	for k, v := range s.extra {
		doc[k] = v
	}
	doc[keyCurrentPeriodStart] = mustMarshal(cfg.CurrentPeriodStart)
	doc[keyUseTips] = mustMarshal(cfg.UseTips)
	// decimal.Decimal marshals as a quoted string; the document format uses
	// plain JSON numbers, so write the canonical decimal text directly.
	doc[keyBaseRate] = json.RawMessage(cfg.BaseRate.String())
	doc[keyAvgTips] = json.RawMessage(cfg.AvgTips.String())

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// quarantine renames the broken document aside. Rename failure is reported
// in the warning but never propagated: defaults are used either way.
func (s *Store) quarantine() *Warning {
	backup := s.path + CorruptSuffix
	if err := os.Rename(s.path, backup); err != nil {
		return &Warning{
			Kind:    WarnCorrupt,
			Message: "Your settings file appears corrupted. Defaults will be used.",
		}
	}
	return &Warning{
		Kind:          WarnCorrupt,
		Message:       fmt.Sprintf("Your settings file was corrupted and has been renamed to %s. Defaults will be used.", backup),
		QuarantinedTo: backup,
	}
}

func decodeRate(v json.RawMessage) (decimal.Decimal, bool) {
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err) // all inputs are marshalable types
	}
	return data
}
