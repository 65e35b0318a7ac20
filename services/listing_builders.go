package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kfinlab/ipo-calendar-backend/config"
	"github.com/kfinlab/ipo-calendar-backend/models"
)

// Quality-signal thresholds on the raw demand figures.
const (
	goodCompetitionThreshold = 450
	goodLockupThreshold      = 15
)

// nonNumericPattern strips ratio separators, percent signs and Korean unit
// text from rate/ratio cells, e.g. "520.3:1" or "15.5% 확약".
var nonNumericPattern = regexp.MustCompile(`[:%a-zA-Z가-힣]`)

// leadingNumberPattern extracts the numeric prefix that survives cleaning.
var leadingNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseLooseNumber reduces source numeric text to its digit/decimal content
// and parses it. The second return is false when nothing numeric remains;
// callers must treat that as "unknown", which fails threshold tests without
// erroring.
func parseLooseNumber(text string) (float64, bool) {
	cleaned := nonNumericPattern.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	match := leadingNumberPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// IsGoodCompetition reports whether the competition-rate text meets the
// demand threshold. Unknown rates are not good.
func IsGoodCompetition(rateText string) bool {
	value, ok := parseLooseNumber(rateText)
	return ok && value >= goodCompetitionThreshold
}

// IsGoodLockup reports whether the lockup-ratio text meets the commitment
// threshold. Unknown ratios are not good.
func IsGoodLockup(lockupText string) bool {
	value, ok := parseLooseNumber(lockupText)
	return ok && value >= goodLockupThreshold
}

// IsGoodPrice reports whether a confirmed offering price reached or exceeded
// the upper bound of the hoped-for band.
func IsGoodPrice(confirmedText, bandText string) bool {
	confirmed := optionalText(confirmedText)
	if confirmed == nil {
		return false
	}

	confirmedValue, ok := parseLooseNumber(*confirmed)
	if !ok {
		return false
	}

	upper := bandText
	if _, after, found := strings.Cut(bandText, "~"); found {
		upper = after
	}

	upperValue, ok := parseLooseNumber(upper)
	if !ok || upperValue <= 0 {
		return false
	}

	return confirmedValue >= upperValue
}

// optionalText converts source text to its optional representation: empty
// strings and the source's "-" placeholder both mean absent.
func optionalText(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" || text == models.DisplaySentinel {
		return nil
	}
	return &text
}

// withinWindow reports whether a parsed listing date falls inside the crawl
// retention window. Unparseable dates are always outside.
func withinWindow(date *time.Time, window config.CrawlWindow, now time.Time) bool {
	if date == nil {
		return false
	}
	past, future := window.Bounds(now)
	return !date.Before(past) && !date.After(future)
}

// BuildForecastResults consumes forecast-results rows into the set. Rows
// whose forecast date falls outside the retention window are discarded. A
// row with a confirmed offering price produces a completed entity; a row
// still awaiting its confirmed price stays scheduled, so completed entities
// always carry a confirmed price.
func BuildForecastResults(set *EntitySet, rows []ForecastResultRow, window config.CrawlWindow, now time.Time) {
	for _, row := range rows {
		if !withinWindow(ParseScheduleStart(row.Schedule), window, now) {
			continue
		}

		confirmed := optionalText(row.ConfirmedPrice)
		status := models.IPOStatusScheduled
		if confirmed != nil {
			status = models.IPOStatusCompleted
		}

		set.Add(&models.IPO{
			Name:             row.Name,
			Status:           status,
			ForecastSchedule: row.Schedule,
			PriceBand:        row.PriceBand,
			ConfirmedPrice:   confirmed,
			CompetitionRate:  optionalText(row.CompetitionRate),
			LockupRatio:      optionalText(row.LockupRatio),
			Underwriter:      optionalText(row.Underwriter),
			IsGoodComp:       IsGoodCompetition(row.CompetitionRate),
			IsGoodLockup:     IsGoodLockup(row.LockupRatio),
			IsGoodPrice:      IsGoodPrice(row.ConfirmedPrice, row.PriceBand),
		})
	}
}

// BuildForecastSchedule consumes forecast-schedule rows into the set. A
// company already present keeps its earlier record untouched: this listing
// never overwrites a completed entry. Rows outside the window are discarded.
func BuildForecastSchedule(set *EntitySet, rows []ForecastScheduleRow, window config.CrawlWindow, now time.Time) {
	for _, row := range rows {
		if _, exists := set.Lookup(row.Name); exists {
			continue
		}
		if !withinWindow(ParseScheduleStart(row.Schedule), window, now) {
			continue
		}

		set.Add(&models.IPO{
			Name:             row.Name,
			Status:           models.IPOStatusScheduled,
			ForecastSchedule: row.Schedule,
			PriceBand:        row.PriceBand,
			Underwriter:      optionalText(row.Underwriter),
		})
	}
}

// BuildSubscriptionSchedule consumes subscription-schedule rows into the
// set. A known company is patched with its subscription window only; no
// other field is touched. An unknown company whose subscription date falls
// inside the window is created as a scheduled entity from this listing's own
// shifted columns.
func BuildSubscriptionSchedule(set *EntitySet, rows []SubscriptionRow, window config.CrawlWindow, now time.Time) {
	for _, row := range rows {
		schedule := row.Schedule

		if existing, exists := set.Lookup(row.Name); exists {
			existing.SubscriptionSchedule = &schedule
			continue
		}

		if !withinWindow(ParseScheduleStart(row.Schedule), window, now) {
			continue
		}

		set.Add(&models.IPO{
			Name:                 row.Name,
			Status:               models.IPOStatusScheduled,
			SubscriptionSchedule: &schedule,
			PriceBand:            row.PriceBand,
			ConfirmedPrice:       optionalText(row.ConfirmedPrice),
			Underwriter:          optionalText(row.Underwriter),
		})
	}
}
