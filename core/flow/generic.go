package flow

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/akhror/zavodbot/core/telegram/calendar"

	tele "gopkg.in/telebot.v4"
)

// NoticeError is a recoverable input problem with a short user-facing
// notice. Routers show the notice as a transient message and leave the
// session on the current step.
type NoticeError struct {
	Notice string
}

func (e *NoticeError) Error() string {
	return "flow: rejected input: " + e.Notice
}

var (
	intMessageRe   = regexp.MustCompile(`^\d{1,12}$`)
	floatMessageRe = regexp.MustCompile(`^\d{1,9}([.,]\d{1,3})?$`)
	calendarDayRe  = regexp.MustCompile(`^cal_day_\d{4}-\d{2}-\d{2}$`)
	calendarNavRe  = regexp.MustCompile(`^cal_(prev|next)_\d{4}-\d{2}$`)
)

// CaptureIntCallback consumes callback data like "branch_12": the
// pattern's first capture group is parsed as an integer and handed to
// assign together with the form.
func CaptureIntCallback[D any](pattern *regexp.Regexp, assign func(*Form, int64), next StepID, push bool) Trigger[D] {
	return Trigger[D]{
		Kind:    KindCallback,
		Pattern: pattern,
		Next:    next,
		Push:    push,
		Handle: func(_ context.Context, _ D, _ tele.Context, s *Session, input string) error {
			m := pattern.FindStringSubmatch(input)
			if len(m) < 2 {
				return &NoticeError{Notice: "Noto'g'ri tanlov"}
			}
			v, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return &NoticeError{Notice: "Noto'g'ri tanlov"}
			}
			assign(&s.Form, v)
			return nil
		},
	}
}

// CaptureIntMessage consumes a plain numeric text message.
func CaptureIntMessage[D any](assign func(*Form, int64), next StepID, push bool) Trigger[D] {
	return Trigger[D]{
		Kind:    KindMessage,
		Pattern: intMessageRe,
		Next:    next,
		Push:    push,
		Handle: func(_ context.Context, _ D, _ tele.Context, s *Session, input string) error {
			v, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
			if err != nil {
				return &NoticeError{Notice: "Butun son kiriting"}
			}
			assign(&s.Form, v)
			return nil
		},
	}
}

// CaptureFloatMessage consumes a decimal text message. A comma decimal
// separator is accepted alongside the dot.
func CaptureFloatMessage[D any](assign func(*Form, float64), next StepID, push bool) Trigger[D] {
	return Trigger[D]{
		Kind:    KindMessage,
		Pattern: floatMessageRe,
		Next:    next,
		Push:    push,
		Handle: func(_ context.Context, _ D, _ tele.Context, s *Session, input string) error {
			v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(input), ",", "."), 64)
			if err != nil {
				return &NoticeError{Notice: "Son kiriting"}
			}
			assign(&s.Form, v)
			return nil
		},
	}
}

// CaptureDate consumes a calendar day selection. The optional validate
// hook can reject dates (for example dates in the future) with a notice.
func CaptureDate[D any](assign func(*Form, time.Time), next StepID, push bool, validate func(time.Time) error) Trigger[D] {
	return Trigger[D]{
		Kind:    KindCallback,
		Pattern: calendarDayRe,
		Next:    next,
		Push:    push,
		Handle: func(_ context.Context, _ D, _ tele.Context, s *Session, input string) error {
			day, ok := calendar.ParseSelection(input)
			if !ok {
				return &NoticeError{Notice: "Sanani tanlang"}
			}
			if validate != nil {
				if err := validate(day); err != nil {
					return err
				}
			}
			assign(&s.Form, day)
			return nil
		},
	}
}

// CalendarNav pages the calendar widget to an adjacent month and
// redraws the current step in place.
func CalendarNav[D any]() Trigger[D] {
	return Trigger[D]{
		Kind:     KindCallback,
		Pattern:  calendarNavRe,
		Rerender: true,
		Handle: func(_ context.Context, _ D, _ tele.Context, s *Session, input string) error {
			year, month, ok := calendar.ParseNav(input)
			if !ok {
				return &NoticeError{Notice: "Sanani tanlang"}
			}
			s.Form.CalYear = year
			s.Form.CalMonth = month
			return nil
		},
	}
}
