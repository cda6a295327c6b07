package flow

import (
	"context"
	"regexp"

	tele "gopkg.in/telebot.v4"
)

// Kind distinguishes which update type a trigger consumes.
type Kind int

const (
	// KindCallback matches inline button presses by their raw data.
	KindCallback Kind = iota
	// KindMessage matches plain text messages.
	KindMessage
)

// HandlerFunc consumes matched input and mutates the session. The input
// string is the callback data or message text that matched the pattern.
type HandlerFunc[D any] func(ctx context.Context, deps D, c tele.Context, s *Session, input string) error

// Trigger declares how a step consumes one shape of input. When Handle
// succeeds and Next is non-empty, the dispatcher advances the session
// to Next (pushing the current step when Push is set). Triggers with an
// empty Next manage navigation themselves inside Handle.
type Trigger[D any] struct {
	Kind    Kind
	Pattern *regexp.Regexp
	Next    StepID
	Push    bool
	// Rerender redraws the current step after Handle instead of moving
	// to another step. Used by widgets such as calendar month paging.
	Rerender bool
	Handle   HandlerFunc[D]
}

// Match finds the first trigger of the given kind whose pattern matches
// the input. A nil pattern matches any input of that kind.
func Match[D any](triggers []Trigger[D], kind Kind, input string) (Trigger[D], bool) {
	for _, t := range triggers {
		if t.Kind != kind {
			continue
		}
		if t.Pattern == nil || t.Pattern.MatchString(input) {
			return t, true
		}
	}
	return Trigger[D]{}, false
}
