package ui

import (
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	tests := []string{
		"2024-05-01T12:30:45Z",
		"2024-05-01T12:30:45",
		"2024-05-01 12:30:45",
	}
	for _, s := range tests {
		if _, ok := parseTimestamp(s); !ok {
			t.Errorf("parseTimestamp(%q) failed", s)
		}
	}
	if _, ok := parseTimestamp("yesterday at noon"); ok {
		t.Errorf("parseTimestamp accepted free text")
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock("2024-05-01T12:30:45"); got != "12:30:45" {
		t.Errorf("formatClock = %q, want 12:30:45", got)
	}
	// Unparseable input passes through instead of disappearing.
	if got := formatClock("???"); got != "???" {
		t.Errorf("formatClock on bad input = %q", got)
	}
}

func TestFormatDateSeparator(t *testing.T) {
	now := time.Now()
	today := now.Format("2006-01-02T15:04:05")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02T15:04:05")

	if got := formatDateSeparator(today); got != "Today" {
		t.Errorf("today's separator = %q", got)
	}
	if got := formatDateSeparator(yesterday); got != "Yesterday" {
		t.Errorf("yesterday's separator = %q", got)
	}
	if got := formatDateSeparator("1999-12-31T10:00:00"); got != "December 31, 1999" {
		t.Errorf("old date separator = %q", got)
	}
	if got := formatDateSeparator("gibberish-but-long"); got != "gibberish-" {
		t.Errorf("unparseable separator = %q", got)
	}
}

func TestMessageDate(t *testing.T) {
	if got := messageDate("2024-05-01T12:30:45"); got != "2024-05-01" {
		t.Errorf("messageDate = %q", got)
	}
	if got := messageDate("short"); got != "" {
		t.Errorf("messageDate on short input = %q", got)
	}
}
