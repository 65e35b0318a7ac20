package services

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table summary attribute values. The source has no semantic markup; the
// summary text is each table's only stable identifier.
const (
	TableSummaryForecastResults      = "수요예측결과"
	TableSummaryForecastSchedule     = "수요예측일정"
	TableSummarySubscriptionSchedule = "공모주 청약일정"
)

// headerLabel appears in the first cell of rows that repeat the column
// header inside the table body.
const headerLabel = "종목명"

// minListingCells is the minimum cell count for a usable data row.
const minListingCells = 5

// ForecastResultRow is one validated row of the forecast-results table.
type ForecastResultRow struct {
	Name            string
	Schedule        string
	PriceBand       string
	ConfirmedPrice  string
	CompetitionRate string
	LockupRatio     string
	Underwriter     string
}

// ForecastScheduleRow is one validated row of the forecast-schedule table.
type ForecastScheduleRow struct {
	Name        string
	Schedule    string
	PriceBand   string
	Underwriter string
}

// SubscriptionRow is one validated row of the subscription-schedule table.
// Its cell layout is shifted relative to the forecast tables: the confirmed
// price precedes the hoped band.
type SubscriptionRow struct {
	Name           string
	Schedule       string
	ConfirmedPrice string
	PriceBand      string
	Underwriter    string
}

// extractTableCells returns the trimmed cell texts of every usable data row
// of the uniquely summary-identified table. The first row is the header by
// position; rows with too few cells, a blank first cell, or a repeated
// header label are skipped. Row order carries no meaning and is re-sorted
// downstream.
func extractTableCells(document *goquery.Document, summary string) [][]string {
	if document == nil {
		return nil
	}

	var rows [][]string
	selector := fmt.Sprintf("table[summary=%q] tr", summary)

	document.Find(selector).Each(func(index int, row *goquery.Selection) {
		if index == 0 {
			return
		}

		cells := row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
			return strings.TrimSpace(cell.Text())
		})

		if len(cells) < minListingCells {
			return
		}
		if cells[0] == "" || strings.Contains(cells[0], headerLabel) {
			return
		}

		rows = append(rows, cells)
	})

	return rows
}

// cellAt tolerates short rows: a missing trailing cell reads as empty text,
// the same degraded value the source renders.
func cellAt(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}

// ExtractForecastResultRows validates the forecast-results table into named
// fields. Cell layout: name, schedule, hoped band, confirmed price, (skipped),
// competition rate, lockup ratio, underwriter.
func ExtractForecastResultRows(document *goquery.Document) []ForecastResultRow {
	var rows []ForecastResultRow
	for _, cells := range extractTableCells(document, TableSummaryForecastResults) {
		rows = append(rows, ForecastResultRow{
			Name:            cellAt(cells, 0),
			Schedule:        cellAt(cells, 1),
			PriceBand:       cellAt(cells, 2),
			ConfirmedPrice:  cellAt(cells, 3),
			CompetitionRate: cellAt(cells, 5),
			LockupRatio:     cellAt(cells, 6),
			Underwriter:     cellAt(cells, 7),
		})
	}
	return rows
}

// ExtractForecastScheduleRows validates the forecast-schedule table into
// named fields.
func ExtractForecastScheduleRows(document *goquery.Document) []ForecastScheduleRow {
	var rows []ForecastScheduleRow
	for _, cells := range extractTableCells(document, TableSummaryForecastSchedule) {
		rows = append(rows, ForecastScheduleRow{
			Name:        cellAt(cells, 0),
			Schedule:    cellAt(cells, 1),
			PriceBand:   cellAt(cells, 2),
			Underwriter: cellAt(cells, 5),
		})
	}
	return rows
}

// ExtractSubscriptionRows validates the subscription-schedule table into
// named fields.
func ExtractSubscriptionRows(document *goquery.Document) []SubscriptionRow {
	var rows []SubscriptionRow
	for _, cells := range extractTableCells(document, TableSummarySubscriptionSchedule) {
		rows = append(rows, SubscriptionRow{
			Name:           cellAt(cells, 0),
			Schedule:       cellAt(cells, 1),
			ConfirmedPrice: cellAt(cells, 2),
			PriceBand:      cellAt(cells, 3),
			Underwriter:    cellAt(cells, 5),
		})
	}
	return rows
}
