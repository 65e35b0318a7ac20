package services

import (
	"strings"
	"time"
)

// Listing date formats as printed by the source, e.g. "2026.01.20" inside a
// range like "2026.01.20~01.25".
var listingDateFormats = []string{
	"2006.01.02",
	"2006.1.2",
}

func parseListingDateSegment(segment string) *time.Time {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return nil
	}

	for _, format := range listingDateFormats {
		if parsed, err := time.Parse(format, segment); err == nil {
			return &parsed
		}
	}

	return nil
}

// ParseScheduleStart parses the first date segment of a date or date-range
// string. Returns nil on any unparseable input; callers treat nil as
// "exclude from date-bounded decisions".
func ParseScheduleStart(text string) *time.Time {
	start, _, _ := strings.Cut(text, "~")
	return parseListingDateSegment(start)
}

// ParseScheduleEnd parses the end of a date range. The source truncates the
// end segment to "MM.DD" when both dates share a year, so a short segment
// borrows the year from the start segment. A plain single date parses as its
// own end.
func ParseScheduleEnd(text string) *time.Time {
	parts := strings.Split(text, "~")
	end := strings.TrimSpace(parts[len(parts)-1])

	if len(parts) > 1 && len(end) <= 5 {
		startYear, _, _ := strings.Cut(strings.TrimSpace(parts[0]), ".")
		end = startYear + "." + end
	}

	return parseListingDateSegment(end)
}
