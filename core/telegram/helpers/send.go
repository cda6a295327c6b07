package helpers

import (
	"sync/atomic"

	"github.com/akhror/zavodbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the process-wide outbound dispatcher used by the
// async send helpers. Passing nil reverts to synchronous sends.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// Dispatcher returns the currently wired outbound dispatcher, if any.
func Dispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// SendHTML sends an HTML-formatted message through the async dispatcher
// when one is wired, falling back to a direct send otherwise.
func SendHTML(c tele.Context, text string, opts ...any) error {
	opts = append(opts, tele.ModeHTML)
	d := globalDispatcher.Load()
	if d == nil {
		return c.Send(text, opts...)
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, "send.html", func() error {
		return c.Send(text, opts...)
	})
	if err != nil {
		return c.Send(text, opts...)
	}
	return nil
}

// EditOrSendHTML edits the message attached to the callback when
// possible, otherwise sends a new one. Edit failures (stale or deleted
// messages) degrade to a plain send.
func EditOrSendHTML(c tele.Context, text string, opts ...any) error {
	opts = append(opts, tele.ModeHTML)
	if c.Callback() == nil {
		return c.Send(text, opts...)
	}
	if err := c.Edit(text, opts...); err != nil {
		return c.Send(text, opts...)
	}
	return nil
}
