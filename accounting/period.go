// Package accounting contains the pure calculations behind the salary
// and statistics reports: period resolution and wage sharing.
package accounting

import (
	"fmt"
	"time"
)

// Period names a reporting window selectable from the statistics menu.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAll     Period = "all"
)

// allTimeStart bounds the "all time" window from below.
var allTimeStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Resolve returns the [from, to] date range for the period relative to
// now. Weekly covers the last 7 days, monthly the last 30.
func (p Period) Resolve(now time.Time) (from, to time.Time, err error) {
	day := now.Truncate(24 * time.Hour)
	switch p {
	case PeriodWeekly:
		return day.AddDate(0, 0, -7), day, nil
	case PeriodMonthly:
		return day.AddDate(0, 0, -30), day, nil
	case PeriodAll:
		return allTimeStart, day, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("accounting: unknown period %q", p)
	}
}

// MonthRange returns the first and last day of the given month in the
// year of now.
func MonthRange(month time.Month, now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, -1)
	return from, to
}
