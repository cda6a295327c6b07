package flows

import (
	"context"
	"log/slog"
	"time"

	"github.com/akhror/zavodbot/core/logger"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const transientTTL = 5 * time.Second

// sendTransient shows a short notice that removes itself after a few
// seconds. Delivery failures are logged, never propagated: the session
// must not be disturbed by a cosmetic message.
func sendTransient(ctx context.Context, c tele.Context, text string) {
	msg, err := c.Bot().Send(c.Recipient(), text)
	if err != nil {
		logger.Warn(ctx, "flow", "transient.send.fail", slog.String("error", err.Error()))
		return
	}
	if d := tghelpers.Dispatcher(); d != nil {
		d.DeleteAfter(c.Bot(), msg, transientTTL)
	}
}

// InvalidInput shows the transient notice for input no trigger matched.
func InvalidInput(ctx context.Context, c tele.Context) {
	sendTransient(ctx, c, msgInvalidResponse)
}

// Notice shows a trigger's rejection text as a transient message.
func Notice(ctx context.Context, c tele.Context, text string) {
	sendTransient(ctx, c, text)
}

// Failure tells the user their update could not be processed. Every
// hard error path ends here so a tap never goes unanswered; the send
// error itself is only logged.
func Failure(ctx context.Context, c tele.Context) {
	if err := tghelpers.SendHTML(c, msgSomethingWrong); err != nil {
		logger.Warn(ctx, "flow", "failure.send.fail", slog.String("error", err.Error()))
	}
}

// Denied tells an unregistered user they cannot use the bot.
func Denied(c tele.Context) error {
	return tghelpers.SendHTML(c, msgAccessDenied)
}

// notifyAdmin forwards the summary of a saved record to the configured
// super admin. A zero admin id disables notifications.
func notifyAdmin(ctx context.Context, deps *Deps, c tele.Context, text string) {
	if deps.SuperAdmin == 0 {
		return
	}
	admin := &tele.User{ID: deps.SuperAdmin}
	send := func() error {
		_, err := c.Bot().Send(admin, text, tele.ModeHTML)
		return err
	}
	if d := tghelpers.Dispatcher(); d != nil {
		if err := d.Enqueue(ctx, "notify.admin", send); err == nil {
			return
		}
	}
	if err := send(); err != nil {
		logger.Warn(ctx, "flow", "notify.admin.fail", slog.String("error", err.Error()))
	}
}

// sendReport delivers the rendered PDF with its PNG thumbnail.
func sendReport(c tele.Context, pdfPath, pngPath, caption string) error {
	doc := &tele.Document{
		File:      tele.FromDisk(pdfPath),
		Thumbnail: &tele.Photo{File: tele.FromDisk(pngPath)},
		Caption:   caption,
	}
	return c.Send(doc)
}
