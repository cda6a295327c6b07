// Package keyboard builds inline keyboard markups from compact button specs.
package keyboard

import (
	tele "gopkg.in/telebot.v4"
)

// BackData is the callback payload shared by every back button.
const BackData = "back"

// InlineBtn describes a single inline keyboard button carrying a raw
// callback payload.
type InlineBtn struct {
	Text string
	Data string
	URL  string
}

func (b InlineBtn) toTele() tele.InlineButton {
	return tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL}
}

// InlineRow builds a single row from the given buttons.
func InlineRow(buttons ...InlineBtn) []tele.InlineButton {
	row := make([]tele.InlineButton, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, b.toTele())
	}
	return row
}

// InlineButtonsNPerRow lays buttons out n per row, preserving order.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	if n <= 0 {
		n = 1
	}
	markup := &tele.ReplyMarkup{}
	var rows [][]tele.InlineButton
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, InlineRow(buttons[i:end]...))
	}
	markup.InlineKeyboard = rows
	return markup
}

// InlineRows builds a markup from explicit rows.
func InlineRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	for _, r := range rows {
		markup.InlineKeyboard = append(markup.InlineKeyboard, InlineRow(r...))
	}
	return markup
}

// WithBackRow appends a dedicated back-button row to the markup.
// A nil markup yields a markup containing only the back row.
func WithBackRow(markup *tele.ReplyMarkup, label string) *tele.ReplyMarkup {
	if markup == nil {
		markup = &tele.ReplyMarkup{}
	}
	markup.InlineKeyboard = append(markup.InlineKeyboard,
		InlineRow(InlineBtn{Text: label, Data: BackData}))
	return markup
}
