package flow

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

// stubContext records sends and edits; only the methods the dispatcher
// touches are implemented.
type stubContext struct {
	tele.Context
	callback *tele.Callback
	sent     []string
	edited   []string
}

func (c *stubContext) Callback() *tele.Callback { return c.callback }

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what.(string))
	return nil
}

func (c *stubContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, what.(string))
	return nil
}

func buildDispatcher(t *testing.T) *Dispatcher[testDeps] {
	t.Helper()
	reg := NewRegistry[testDeps]()
	reg.MustRegister("activity", promptStep("Bo'limni tanlang"))
	reg.MustRegister("Production:branch_id", promptStep("Filialni tanlang"))
	reg.MustRegister("Production:date", func(_ context.Context, _ testDeps, s *Session) (Prompt, error) {
		return Prompt{Text: "Sanani tanlang", EditInPlace: true}, nil
	})
	reg.MustRegister("Production:quantity", promptStep("Miqdorni kiriting"))

	reg.Bind("activity", CaptureIntCallback[testDeps](
		regexp.MustCompile(`^activity_(\d+)$`),
		func(f *Form, v int64) { f.BranchID = v },
		"Production:branch_id", true,
	))
	reg.Bind("branch_id", CaptureIntCallback[testDeps](
		regexp.MustCompile(`^branch_(\d+)$`),
		func(f *Form, v int64) { f.BranchID = v },
		"Production:date", true,
	))
	reg.Bind("date",
		CalendarNav[testDeps](),
		CaptureDate[testDeps](
			func(f *Form, d time.Time) { f.Date = d },
			"Production:quantity", true, nil,
		),
	)
	reg.Bind("quantity", CaptureIntMessage[testDeps](
		func(f *Form, v int64) { f.Quantity = v },
		"", false,
	))

	return NewDispatcher(reg, testDeps{}, "activity")
}

func TestGotoUnknownStep(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{}
	var s Session

	err := d.Goto(context.Background(), c, &s, "Production:missing", false)
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestHandleInputAdvancesAndPushes(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{}
	var s Session
	s.Reset("Production:branch_id")

	err := d.HandleInput(context.Background(), c, &s, KindCallback, "branch_3")
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.Form.BranchID)
	assert.Equal(t, StepID("Production:date"), s.Current)
	assert.Equal(t, []StepID{"Production:branch_id"}, s.Stack)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "Sanani tanlang", c.sent[0])
}

func TestHandleInputNoTriggerLeavesSession(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{}
	var s Session
	s.Reset("Production:branch_id")

	err := d.HandleInput(context.Background(), c, &s, KindMessage, "hello")
	assert.ErrorIs(t, err, ErrNoTrigger)
	assert.Equal(t, StepID("Production:branch_id"), s.Current)
	assert.Empty(t, c.sent)
}

func TestHandleInputEmptySessionLandsHome(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{}
	var s Session

	err := d.HandleInput(context.Background(), c, &s, KindCallback, "activity_1")
	require.NoError(t, err)
	assert.Equal(t, StepID("Production:branch_id"), s.Current)
	assert.Equal(t, []StepID{"activity"}, s.Stack)
}

func TestCalendarNavRerendersInPlace(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{callback: &tele.Callback{}}
	var s Session
	s.Reset("Production:date")

	err := d.HandleInput(context.Background(), c, &s, KindCallback, "cal_next_2025-10")
	require.NoError(t, err)

	assert.Equal(t, StepID("Production:date"), s.Current)
	assert.Equal(t, 2025, s.Form.CalYear)
	assert.Equal(t, time.October, s.Form.CalMonth)
	// EditInPlace prompt with a live callback edits instead of sending.
	require.Len(t, c.edited, 1)
	assert.Empty(t, c.sent)
}

func TestCaptureDateValidation(t *testing.T) {
	reg := NewRegistry[testDeps]()
	reg.MustRegister("Production:date", promptStep("Sanani tanlang"))
	reg.MustRegister("Production:quantity", promptStep("Miqdorni kiriting"))
	reg.Bind("date", CaptureDate[testDeps](
		func(f *Form, d time.Time) { f.Date = d },
		"Production:quantity", true,
		func(d time.Time) error {
			if d.After(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)) {
				return &NoticeError{Notice: "Kelajak sanasi mumkin emas"}
			}
			return nil
		},
	))
	d := NewDispatcher(reg, testDeps{}, "Production:date")
	c := &stubContext{}
	var s Session
	s.Reset("Production:date")

	err := d.HandleInput(context.Background(), c, &s, KindCallback, "cal_day_2025-12-31")
	var notice *NoticeError
	require.True(t, errors.As(err, &notice))
	assert.Equal(t, StepID("Production:date"), s.Current)
	assert.True(t, s.Form.Date.IsZero())

	err = d.HandleInput(context.Background(), c, &s, KindCallback, "cal_day_2025-08-20")
	require.NoError(t, err)
	assert.Equal(t, StepID("Production:quantity"), s.Current)
}

func TestBackPopsAndResets(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{}
	var s Session
	s.Reset("activity")
	require.NoError(t, d.Goto(context.Background(), c, &s, "Production:branch_id", true))
	require.NoError(t, d.Goto(context.Background(), c, &s, "Production:date", true))

	require.NoError(t, d.Back(context.Background(), c, &s))
	assert.Equal(t, StepID("Production:branch_id"), s.Current)

	require.NoError(t, d.Back(context.Background(), c, &s))
	assert.Equal(t, StepID("activity"), s.Current)

	// Exhausted stack resets to home.
	s.Form.BranchID = 9
	require.NoError(t, d.Back(context.Background(), c, &s))
	assert.Equal(t, StepID("activity"), s.Current)
	assert.Zero(t, s.Form.BranchID)
}

func TestMessageTriggerWithoutNextStays(t *testing.T) {
	d := buildDispatcher(t)
	c := &stubContext{}
	var s Session
	s.Reset("Production:quantity")

	err := d.HandleInput(context.Background(), c, &s, KindMessage, "250")
	require.NoError(t, err)
	assert.Equal(t, int64(250), s.Form.Quantity)
	assert.Equal(t, StepID("Production:quantity"), s.Current)
	assert.Empty(t, c.sent)
}
