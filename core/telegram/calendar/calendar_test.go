package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkupLayout(t *testing.T) {
	m := Markup(2025, time.September) // Sep 1, 2025 is a Monday
	require.NotNil(t, m)
	require.GreaterOrEqual(t, len(m.InlineKeyboard), 3)

	nav := m.InlineKeyboard[0]
	require.Len(t, nav, 3)
	assert.Equal(t, "cal_prev_2025-08", nav[0].Data)
	assert.Equal(t, "Sentabr 2025", nav[1].Text)
	assert.Equal(t, "cal_next_2025-10", nav[2].Data)

	require.Len(t, m.InlineKeyboard[1], 7)
	assert.Equal(t, "Du", m.InlineKeyboard[1][0].Text)

	firstWeek := m.InlineKeyboard[2]
	assert.Equal(t, "1", firstWeek[0].Text)
	assert.Equal(t, "cal_day_2025-09-01", firstWeek[0].Data)
}

func TestMarkupOffsetAndTrailing(t *testing.T) {
	// Aug 1, 2025 is a Friday, so four leading cells are blanks.
	m := Markup(2025, time.August)
	firstWeek := m.InlineKeyboard[2]
	for i := 0; i < 4; i++ {
		assert.True(t, IsIgnore(firstWeek[i].Data))
	}
	assert.Equal(t, "cal_day_2025-08-01", firstWeek[4].Data)

	last := m.InlineKeyboard[len(m.InlineKeyboard)-1]
	require.Len(t, last, 7)
	found := false
	for _, b := range last {
		if b.Data == "cal_day_2025-08-31" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseSelection(t *testing.T) {
	d, ok := ParseSelection("cal_day_2025-09-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseSelection("cal_prev_2025-09")
	assert.False(t, ok)
	_, ok = ParseSelection("cal_day_garbage")
	assert.False(t, ok)
	_, ok = ParseSelection("branch_3")
	assert.False(t, ok)
}

func TestParseNav(t *testing.T) {
	y, mo, ok := ParseNav("cal_prev_2025-08")
	require.True(t, ok)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.August, mo)

	y, mo, ok = ParseNav("cal_next_2026-01")
	require.True(t, ok)
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.January, mo)

	_, _, ok = ParseNav("cal_day_2025-08-01")
	assert.False(t, ok)
}
