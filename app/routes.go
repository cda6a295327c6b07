package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/akhror/zavodbot/core/flow"
	"github.com/akhror/zavodbot/core/logger"
	"github.com/akhror/zavodbot/core/telegram/calendar"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/core/telegram/keyboard"
	"github.com/akhror/zavodbot/flows"

	tele "gopkg.in/telebot.v4"
)

// Router feeds Telegram updates into the flow engine. Every
// session-touching handler runs under the session store's per-user
// lock, so a user's updates are processed strictly in order.
type Router struct {
	deps  *flows.Deps
	store *flow.Store
	disp  *flow.Dispatcher[*flows.Deps]
}

// NewRouter wires the router over the shared engine pieces.
func NewRouter(deps *flows.Deps, store *flow.Store, disp *flow.Dispatcher[*flows.Deps]) *Router {
	return &Router{deps: deps, store: store, disp: disp}
}

// Install binds the callback and text endpoints.
func (r *Router) Install(bot *tele.Bot) {
	bot.Handle(tele.OnCallback, r.onCallback)
	bot.Handle(tele.OnText, r.onText)
}

func (r *Router) onCallback(c tele.Context) error {
	defer func() { _ = c.Respond() }()

	cb := c.Callback()
	if cb == nil || c.Sender() == nil {
		return nil
	}
	data := strings.TrimSpace(strings.TrimPrefix(cb.Data, "\f"))
	if data == "" || calendar.IsIgnore(data) {
		return nil
	}

	ctx := tghelpers.WithHandler(c, "callback")
	if !r.authorized(ctx, c) {
		return nil
	}

	return r.withSession(ctx, c, func(s *flow.Session) error {
		if data == keyboard.BackData {
			return r.disp.Back(ctx, c, s)
		}
		return r.disp.HandleInput(ctx, c, s, flow.KindCallback, data)
	})
}

func (r *Router) onText(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	ctx := tghelpers.WithHandler(c, "text")
	if !r.authorized(ctx, c) {
		return nil
	}

	return r.withSession(ctx, c, func(s *flow.Session) error {
		return r.disp.HandleInput(ctx, c, s, flow.KindMessage, text)
	})
}

// Start resets the session and shows the home step.
func (r *Router) Start(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cmd.start")
	return r.withSession(ctx, c, func(s *flow.Session) error {
		return r.disp.Reset(ctx, c, s)
	})
}

// Cancel behaves like the back button: pop a step, or end at home.
func (r *Router) Cancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cmd.cancel")
	if !r.authorized(ctx, c) {
		return nil
	}
	return r.withSession(ctx, c, func(s *flow.Session) error {
		return r.disp.Back(ctx, c, s)
	})
}

// Stats enters the statistics flow from scratch.
func (r *Router) Stats(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cmd.stats")
	if !r.authorized(ctx, c) {
		return nil
	}
	return r.withSession(ctx, c, func(s *flow.Session) error {
		s.Reset(flows.StepHome)
		return r.disp.Goto(ctx, c, s, flows.StepStatsKind, true)
	})
}

// Salary enters the salary flow from scratch.
func (r *Router) Salary(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cmd.salary")
	if !r.authorized(ctx, c) {
		return nil
	}
	return r.withSession(ctx, c, func(s *flow.Session) error {
		s.Reset(flows.StepHome)
		return r.disp.Goto(ctx, c, s, flows.StepSalaryBranch, true)
	})
}

// Inventory sends the stock balance report without touching the session.
func (r *Router) Inventory(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cmd.inventory")
	if !r.authorized(ctx, c) {
		return nil
	}
	if err := flows.InventoryReport(ctx, r.deps, c); err != nil {
		logger.Error(ctx, "flow", "inventory.fail", slog.String("error", err.Error()))
		flows.Failure(ctx, c)
	}
	return nil
}

// authorized gates every non-/start entry point. Unknown users get the
// denial message once per attempt.
func (r *Router) authorized(ctx context.Context, c tele.Context) bool {
	_, err := r.deps.Authorize(ctx, c.Sender().ID)
	if err == nil {
		return true
	}
	if errors.Is(err, flows.ErrUnauthorized) {
		_ = flows.Denied(c)
		return false
	}
	logger.Error(ctx, "flow", "authorize.fail", slog.String("error", err.Error()))
	return false
}

// withSession runs fn under the sender's session lock and converts
// recoverable flow errors into transient notices. Hard errors are
// logged, answered with a generic failure message and swallowed so
// telebot does not retry the update.
func (r *Router) withSession(ctx context.Context, c tele.Context, fn func(*flow.Session) error) error {
	err := r.store.Do(c.Sender().ID, fn)
	if err == nil {
		return nil
	}

	var notice *flow.NoticeError
	switch {
	case errors.As(err, &notice):
		flows.Notice(ctx, c, notice.Notice)
	case errors.Is(err, flow.ErrNoTrigger):
		flows.InvalidInput(ctx, c)
	default:
		logger.Error(ctx, "flow", "update.fail", slog.String("error", err.Error()))
		flows.Failure(ctx, c)
	}
	return nil
}
