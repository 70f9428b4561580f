package earnings

import (
	"strings"
	"time"
)

// =============================================================================
// EXPORT REPORT - Textual export of all entries
// =============================================================================

// exportTimeLayout matches the timestamp format of the stored created_at
// values, so the Logged_At column round-trips what the store recorded.
const exportTimeLayout = "2006-01-02 15:04:05"

// RateSummary returns the human-readable rate line used in the export
// header and the summary display, e.g.
//
//	Rate: $30.15/hr (Base: $7.00, Tips: $23.15)
//	Rate: $7.00/hr (Base: $7.00, Tips excluded)
func RateSummary(s Settings) string {
	var b strings.Builder
	b.WriteString("Rate: $")
	b.WriteString(s.EffectiveRate().StringFixed(2))
	b.WriteString("/hr (Base: $")
	b.WriteString(s.BaseRate.StringFixed(2))
	if s.UseTips {
		b.WriteString(", Tips: $")
		b.WriteString(s.AvgTips.StringFixed(2))
		b.WriteString(")")
	} else {
		b.WriteString(", Tips excluded)")
	}
	return b.String()
}

// Report renders the full-data export: a header block (title, generation
// timestamp, rate summary, separator, CSV column header) followed by one
// comma-joined line per entry. Entries are expected in ExportAll order
// (chronological, oldest period first).
func Report(entries []Entry, s Settings, now time.Time) string {
	lines := []string{
		"LedgerFlow Data Export",
		"Generated: " + now.Format(exportTimeLayout),
		RateSummary(s),
		strings.Repeat("=", 50),
		"Period,Date,Hours,Note,Logged_At",
	}

	for _, e := range entries {
		lines = append(lines, strings.Join([]string{
			e.PeriodStart,
			e.Date,
			e.Hours.String(),
			e.Note,
			e.CreatedAt.Format(exportTimeLayout),
		}, ","))
	}

	return strings.Join(lines, "\n")
}
