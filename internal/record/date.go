package record

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date form used for storage and comparison.
const DateLayout = "2006-01-02"

// FormatDate returns the calendar date of t as seen in t's own location.
// A picker handing back local midnight therefore never shifts by a day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate normalizes a date string to DateLayout. It accepts the canonical
// form and full RFC 3339 timestamps. The empty string stays empty.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return FormatDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return FormatDate(t), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DateTime converts a canonical date into a time at midnight UTC. It returns
// false for empty or malformed input.
func DateTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
