package repository

import (
	"time"
)

// SQLite's CURRENT_TIMESTAMP is stored as text with second resolution; the
// driver may hand it back either pre-parsed (RFC 3339) or verbatim.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

func parseSQLiteTime(s string) time.Time {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
