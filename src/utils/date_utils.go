package utils

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayouts are the layouts accepted for transaction timestamps in
// request bodies. Layouts without a zone are read as UTC.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s with the first matching layout from TimestampLayouts.
func ParseTimestamp(s string) (time.Time, error) {
	return ParseTimeLayouts(s, TimestampLayouts...)
}

// ParseTimeLayouts tries each layout in turn.
func ParseTimeLayouts(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches none of the supported formats", s)
}
