package store

import (
	"strings"
	"time"
)

// parseSQLiteDateTime parses the handful of textual datetime layouts
// SQLite produces for DATETIME columns. An unparseable value yields the
// zero time rather than an error; audit timestamps are display-only.
func parseSQLiteDateTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02 15:04:05.999999-07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}
