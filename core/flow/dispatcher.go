package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/akhror/zavodbot/core/logger"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrNoTrigger indicates the current step has no trigger matching
	// the incoming input. Routers treat this as recoverable and show a
	// transient notice without changing the session.
	ErrNoTrigger = errors.New("flow: no matching trigger")
	// ErrEmptyPrompt indicates a renderer produced no text, which would
	// leave the user without a message to act on.
	ErrEmptyPrompt = errors.New("flow: empty prompt")
)

// Dispatcher executes steps against sessions: it renders prompts, feeds
// input to triggers and moves sessions along the navigation stack.
type Dispatcher[D any] struct {
	reg  *Registry[D]
	deps D
	home StepID
}

// NewDispatcher builds a dispatcher over a finished registry. The home
// step is where sessions land after reset, cancel or an exhausted back
// stack.
func NewDispatcher[D any](reg *Registry[D], deps D, home StepID) *Dispatcher[D] {
	return &Dispatcher[D]{reg: reg, deps: deps, home: home}
}

// Home returns the dispatcher's home step id.
func (d *Dispatcher[D]) Home() StepID {
	return d.home
}

// Goto moves the session to the given step and renders its prompt.
// When push is set the departing step is recorded on the back stack.
func (d *Dispatcher[D]) Goto(ctx context.Context, c tele.Context, s *Session, to StepID, push bool) error {
	render, ok := d.reg.Renderer(to)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStep, to)
	}

	if push {
		s.Push(to)
	} else {
		s.Replace(to)
	}

	start := time.Now()
	prompt, err := render(ctx, d.deps, s)
	if err != nil {
		return fmt.Errorf("flow: render step %q: %w", to, err)
	}
	if prompt.Text == "" {
		return fmt.Errorf("%w: step %q", ErrEmptyPrompt, to)
	}

	logger.Debug(ctx, "flow", "step.render",
		slog.String("step", string(to)),
		slog.Int("stack_depth", len(s.Stack)),
		slog.Duration("took", logger.RoundMS(time.Since(start))),
	)

	return d.send(c, prompt)
}

// HandleInput matches the incoming callback data or message text
// against the current step's triggers, runs the matched handler and
// advances the session when the trigger names a next step.
func (d *Dispatcher[D]) HandleInput(ctx context.Context, c tele.Context, s *Session, kind Kind, input string) error {
	if s.Current == "" {
		s.Reset(d.home)
	}

	triggers := d.reg.Triggers(s.Current)
	t, ok := Match(triggers, kind, input)
	if !ok {
		return fmt.Errorf("%w: step %q input %q", ErrNoTrigger, s.Current, logger.SanitizeLimit(input, 64))
	}

	if t.Handle != nil {
		if err := t.Handle(ctx, d.deps, c, s, input); err != nil {
			return err
		}
	}
	if t.Rerender {
		return d.Goto(ctx, c, s, s.Current, false)
	}
	if t.Next == "" {
		return nil
	}
	return d.Goto(ctx, c, s, t.Next, t.Push)
}

// Back pops the navigation stack and re-renders the previous step. An
// exhausted stack resets the session to the home step.
func (d *Dispatcher[D]) Back(ctx context.Context, c tele.Context, s *Session) error {
	prev, ok := s.Pop()
	if !ok {
		return d.Reset(ctx, c, s)
	}
	// Pop already positioned the session; render without stack changes.
	return d.Goto(ctx, c, s, prev, false)
}

// Reset clears the session and shows the home step.
func (d *Dispatcher[D]) Reset(ctx context.Context, c tele.Context, s *Session) error {
	s.Reset(d.home)
	return d.Goto(ctx, c, s, d.home, false)
}

func (d *Dispatcher[D]) send(c tele.Context, p Prompt) error {
	var opts []any
	if p.Markup != nil {
		opts = append(opts, p.Markup)
	}
	if p.EditInPlace {
		return tghelpers.EditOrSendHTML(c, p.Text, opts...)
	}
	return tghelpers.SendHTML(c, p.Text, opts...)
}
