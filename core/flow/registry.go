package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akhror/zavodbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// ErrUnknownStep is returned when a dispatch targets a step id that was
// never registered.
var ErrUnknownStep = errors.New("flow: unknown step")

// Prompt is what a step shows the user: message text, an optional
// inline keyboard, and whether the previous bot message should be
// edited in place rather than a new one sent.
type Prompt struct {
	Text        string
	Markup      *tele.ReplyMarkup
	EditInPlace bool
}

// Renderer produces the prompt for a step given the current session.
type Renderer[D any] func(ctx context.Context, deps D, s *Session) (Prompt, error)

// Registry maps step ids to renderers and input triggers. Triggers are
// resolved by the step's terminal name, so forms sharing a field name
// share its trigger set.
type Registry[D any] struct {
	renderers    map[StepID]Renderer[D]
	triggers     map[string][]Trigger[D]
	stepTriggers map[StepID][]Trigger[D]
}

// NewRegistry creates an empty step registry.
func NewRegistry[D any]() *Registry[D] {
	return &Registry[D]{
		renderers:    make(map[StepID]Renderer[D]),
		triggers:     make(map[string][]Trigger[D]),
		stepTriggers: make(map[StepID][]Trigger[D]),
	}
}

// Register adds a step renderer. Registering the same id twice is a
// programming error and is reported instead of silently replacing.
func (r *Registry[D]) Register(id StepID, render Renderer[D]) error {
	if id == "" {
		return errors.New("flow: empty step id")
	}
	if render == nil {
		return fmt.Errorf("flow: nil renderer for step %q", id)
	}
	if _, exists := r.renderers[id]; exists {
		return fmt.Errorf("flow: step %q already registered", id)
	}
	r.renderers[id] = render
	return nil
}

// MustRegister is Register that panics on error, for static flow tables
// built at startup.
func (r *Registry[D]) MustRegister(id StepID, render Renderer[D]) {
	if err := r.Register(id, render); err != nil {
		panic(err)
	}
}

// Bind attaches input triggers to a terminal step name, shared by every
// step carrying that field name regardless of form. Multiple Bind calls
// on the same name append; matching walks triggers in registration order.
func (r *Registry[D]) Bind(name string, triggers ...Trigger[D]) {
	r.triggers[name] = append(r.triggers[name], triggers...)
}

// BindStep attaches input triggers to one exact step id. Step-scoped
// triggers take precedence over name-shared ones, which lets forms give
// a shared field name a form-specific next step.
func (r *Registry[D]) BindStep(id StepID, triggers ...Trigger[D]) {
	r.stepTriggers[id] = append(r.stepTriggers[id], triggers...)
}

// Renderer resolves the renderer for a step id.
func (r *Registry[D]) Renderer(id StepID) (Renderer[D], bool) {
	render, ok := r.renderers[id]
	return render, ok
}

// Triggers returns the step's trigger set: step-scoped bindings first,
// then the triggers shared under its terminal name.
func (r *Registry[D]) Triggers(id StepID) []Trigger[D] {
	scoped := r.stepTriggers[id]
	shared := r.triggers[id.Name()]
	if len(scoped) == 0 {
		return shared
	}
	if len(shared) == 0 {
		return scoped
	}
	merged := make([]Trigger[D], 0, len(scoped)+len(shared))
	merged = append(merged, scoped...)
	merged = append(merged, shared...)
	return merged
}

// Merge copies all steps and triggers from other into r. On a step id
// collision the later registration wins and the overwrite is logged, so
// flows merged at startup surface conflicting definitions.
func (r *Registry[D]) Merge(other *Registry[D]) {
	if other == nil {
		return
	}
	for id, render := range other.renderers {
		if _, exists := r.renderers[id]; exists {
			logger.FLOW.LogAttrs(context.Background(), slog.LevelWarn, "registry.merge.overwrite",
				slog.String("step", string(id)),
			)
		}
		r.renderers[id] = render
	}
	for name, ts := range other.triggers {
		r.triggers[name] = append(r.triggers[name], ts...)
	}
	for id, ts := range other.stepTriggers {
		r.stepTriggers[id] = append(r.stepTriggers[id], ts...)
	}
}

// Steps returns the number of registered steps.
func (r *Registry[D]) Steps() int {
	return len(r.renderers)
}
