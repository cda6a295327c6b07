package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/akhror/zavodbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Recover catches panics in handlers so one bad update cannot take the
// bot down. The recovered value is logged with the update metadata and
// the event is dropped.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			attrs := []slog.Attr{
				slog.String("event", "tg.panic"),
				slog.Any("err", r),
				slog.Int("update_id", c.Update().ID),
				slog.String("stack", string(debug.Stack())),
			}
			if from := c.Sender(); from != nil {
				attrs = append(attrs, slog.Int64("user_id", from.ID))
			}
			logger.TG.LogAttrs(context.Background(), slog.LevelError, "panic recovered", attrs...)
		}()
		return next(c)
	}
}
