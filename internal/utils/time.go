package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats time to YYYY-MM-DD using its UTC calendar day.
func FormatDate(t time.Time) string {
	return t.UTC().Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}

// DateKey validates a travel date and returns its canonical form.
// An empty value means today.
func DateKey(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FormatDate(now), nil
	}
	if len(raw) > len(layoutDate) {
		// accept full ISO timestamps and keep the calendar day
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return FormatDate(t), nil
		}
	}
	t, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}
