package utils

import (
	"strconv"
	"strings"
	"time"
)

// CleanHeader normalizes a CSV header cell: trims whitespace and strips quotes.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, `"`, "")
}

// ParseCount parses a count cell into an int64. Accepts plain integers,
// thousands separators and float renderings like "29.0".
// Returns false for blank or non-numeric cells.
func ParseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// ParseOptionalCount parses a count cell that may be blank; blank or
// unparsable cells become nil.
func ParseOptionalCount(s string) *int64 {
	if v, ok := ParseCount(s); ok {
		return &v
	}
	return nil
}

// ParseDate parses a date cell in the formats the source snapshots use.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{"2006-01-02", "2006-01-02 15:04:05", "1/2/2006"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
