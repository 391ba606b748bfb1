package jira

import (
	"time"

	"github.com/custodia-labs/jira-export/internal/logger"
)

// timeLayouts are the timestamp formats Jira has been observed to emit.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTime parses a Jira timestamp, keeping its UTC offset.
// Unparseable values are logged and returned as the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logger.Warn("Failed to parse date %q", s)
	return time.Time{}
}
