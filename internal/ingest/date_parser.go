package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts carrying their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05Z07:00",
}

// Layouts interpreted in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
	"2006.1.2",
	"2006. 1. 2.",
	"2006. 1. 2",
	"2006/1/2",
	"2006년 1월 2일",
}

var looseDateRegex = regexp.MustCompile(`(20\d{2})\s*[-./년]\s*(\d{1,2})\s*[-./월]\s*(\d{1,2})`)

// ParseDate parses the date formats the backend is known to emit. Values
// without an explicit offset are read in loc.
func ParseDate(text string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	text = cleanDateString(text)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}

	if t, err := parseDateWithRegex(text, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseDateWithRegex picks the first y-m-d triple out of surrounding text,
// e.g. "2025-01-01(수) 18:00까지".
func parseDateWithRegex(text string, loc *time.Location) (time.Time, error) {
	m := looseDateRegex.FindStringSubmatch(text)
	if len(m) != 4 {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", text)
	}
	return time.ParseInLocation("2006-1-2", fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]), loc)
}

// cleanDateString trims whitespace and common trailing markers.
func cleanDateString(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"까지", "마감"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	return s
}
