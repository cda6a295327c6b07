// Package calendar renders an inline month-grid date picker and parses
// the callback payloads it emits.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/akhror/zavodbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

const (
	dayPrefix  = "cal_day_"
	prevPrefix = "cal_prev_"
	nextPrefix = "cal_next_"
	ignoreData = "cal_ignore"

	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

var monthNames = [...]string{
	"Yanvar", "Fevral", "Mart", "Aprel", "May", "Iyun",
	"Iyul", "Avgust", "Sentabr", "Oktabr", "Noyabr", "Dekabr",
}

var weekdayHeader = [...]string{"Du", "Se", "Ch", "Pa", "Ju", "Sh", "Ya"}

// Markup builds the inline keyboard for the given month. The layout is a
// header row with navigation arrows, a weekday row and up to six rows of
// day buttons. Cells outside the month carry an ignore payload.
func Markup(year int, month time.Month) *tele.ReplyMarkup {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)

	rows := [][]keyboard.InlineBtn{
		{
			{Text: "<", Data: prevPrefix + prev.Format(monthLayout)},
			{Text: fmt.Sprintf("%s %d", monthNames[month-1], year), Data: ignoreData},
			{Text: ">", Data: nextPrefix + next.Format(monthLayout)},
		},
	}

	header := make([]keyboard.InlineBtn, 0, len(weekdayHeader))
	for _, w := range weekdayHeader {
		header = append(header, keyboard.InlineBtn{Text: w, Data: ignoreData})
	}
	rows = append(rows, header)

	// Monday-first offset of the month's opening weekday.
	offset := (int(first.Weekday()) + 6) % 7
	daysInMonth := next.AddDate(0, 0, -1).Day()

	day := 1
	for day <= daysInMonth {
		row := make([]keyboard.InlineBtn, 0, 7)
		for col := 0; col < 7; col++ {
			if (len(rows) == 2 && col < offset) || day > daysInMonth {
				row = append(row, keyboard.InlineBtn{Text: " ", Data: ignoreData})
				continue
			}
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			row = append(row, keyboard.InlineBtn{
				Text: fmt.Sprintf("%d", day),
				Data: dayPrefix + date.Format(dayLayout),
			})
			day++
		}
		rows = append(rows, row)
	}

	return keyboard.InlineRows(rows...)
}

// ParseSelection extracts a selected date from a callback payload.
// Returns false for navigation, ignore and unrelated payloads.
func ParseSelection(data string) (time.Time, bool) {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, dayPrefix) {
		return time.Time{}, false
	}
	t, err := time.Parse(dayLayout, strings.TrimPrefix(data, dayPrefix))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseNav extracts the target month from a prev/next navigation payload.
func ParseNav(data string) (year int, month time.Month, ok bool) {
	data = strings.TrimSpace(data)
	var raw string
	switch {
	case strings.HasPrefix(data, prevPrefix):
		raw = strings.TrimPrefix(data, prevPrefix)
	case strings.HasPrefix(data, nextPrefix):
		raw = strings.TrimPrefix(data, nextPrefix)
	default:
		return 0, 0, false
	}
	t, err := time.Parse(monthLayout, raw)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// IsIgnore reports whether the payload is an inert calendar cell.
func IsIgnore(data string) bool {
	return strings.TrimSpace(data) == ignoreData
}
