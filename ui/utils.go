package ui

import (
	"time"

	"github.com/rivo/tview"
)

// tviewEscape guards user-supplied text against tview color tags.
func tviewEscape(s string) string {
	return tview.Escape(s)
}

// Timestamp layouts the backend is known to emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatClock renders the time-of-day part of a message timestamp.
func formatClock(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("15:04:05")
}

// formatDateSeparator renders a date for the separator line between
// messages from different days.
func formatDateSeparator(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		if len(s) >= 10 {
			return s[:10]
		}
		return s
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(yesterday):
		return "Yesterday"
	case day.Year() == now.Year():
		return t.Format("January 2")
	default:
		return t.Format("January 2, 2006")
	}
}

// messageDate extracts the YYYY-MM-DD prefix used to detect day
// changes.
func messageDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return ""
}
