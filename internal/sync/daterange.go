// Package sync reconciles the normalized resume tables with the authoritative
// sections document stored on each resume.
package sync

import (
	"strings"
	"time"
	"unicode"
)

// monthsByName maps English month names and their three-letter abbreviations
// to calendar months. Matching is case-insensitive.
var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseDateRange parses a free-text range such as "Sep. 2017 – May 2021" or
// "Jun. 2021 - Present" into a start and end date. Each returned date is
// normalized to the first day of its month. A segment that cannot be parsed
// yields nil rather than an error; "Present" (any casing) in the end segment
// always yields a nil end date.
func ParseDateRange(s string) (start, end *time.Time) {
	if s == "" {
		return nil, nil
	}

	// Normalize en-dash and em-dash separators before splitting.
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")

	parts := strings.SplitN(s, "-", 2)
	if len(parts) < 2 {
		return nil, nil
	}

	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	start = parseMonthYear(startStr)
	if !strings.EqualFold(endStr, "present") {
		end = parseMonthYear(endStr)
	}
	return start, end
}

// parseMonthYear parses a single "Sep. 2017" / "September 2017" segment.
// Returns nil on any mismatch.
func parseMonthYear(s string) *time.Time {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ""))
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return nil
	}

	month, ok := monthsByName[strings.ToLower(fields[0])]
	if !ok {
		return nil
	}

	yearStr := fields[1]
	if yearStr == "" || !isAllDigits(yearStr) {
		return nil
	}
	year := 0
	for _, r := range yearStr {
		year = year*10 + int(r-'0')
	}

	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
