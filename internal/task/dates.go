package task

import (
	"strings"
	"time"
)

// dateLayouts are the formats accepted for dates found in source
// documents, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"January 2, 2006",
	"2006",
}

// parseDate attempts to parse s against the accepted layouts.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDateOrFallback parses s, falling back to the given time when the
// value is missing or unparseable. Falling back instead of failing the
// whole task is a deliberate policy: one garbled date on an education
// entry should not discard an otherwise extractable document.
func parseDateOrFallback(s string, fallback time.Time) time.Time {
	if t, ok := parseDate(s); ok {
		return t
	}
	return fallback
}

// parseOptionalDate parses s into a pointer, or nil when missing or
// unparseable.
func parseOptionalDate(s string) *time.Time {
	if t, ok := parseDate(s); ok {
		return &t
	}
	return nil
}

// parseEndDate maps an end-date string from a career narrative:
// blank or "N/A" means ongoing (nil), "Present" means the current date,
// anything else is parsed against the accepted layouts (nil if it
// cannot be parsed).
func parseEndDate(s string, now time.Time) *time.Time {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n/a":
		return nil
	case "present":
		t := now.UTC()
		return &t
	}
	return parseOptionalDate(s)
}
