// Package telegram wires the telebot bot: HTTP client, poller,
// middleware chain, command registry and the run loop.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akhror/zavodbot/core/config"
	"github.com/akhror/zavodbot/core/logger"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// RunOptions describes everything needed to build and run the bot.
type RunOptions struct {
	Config      *config.Config
	Registry    *Registry
	Middlewares []tele.MiddlewareFunc
	// Routes installs domain endpoints (callbacks, text, media) on the bot.
	Routes     func(bot *tele.Bot)
	Dispatcher *sender.Dispatcher
}

// Build constructs the bot without starting it. Useful for tests and
// for callers that want to install extra handlers before Run.
func Build(opts RunOptions) (*tele.Bot, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("telegram: nil config")
	}

	pref := tele.Settings{
		Token:  opts.Config.Telegram.Token,
		Poller: BuildPoller(PollerOptions{LongPollTimeoutSeconds: opts.Config.Telegram.LongPollTimeoutSeconds}),
		Client: BuildHTTPClient(),
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}

	for _, mw := range opts.Middlewares {
		bot.Use(mw)
	}

	installCommands(bot, opts.Registry)
	if opts.Routes != nil {
		opts.Routes(bot)
	}

	return bot, nil
}

// Run builds the bot and blocks until ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	bot, err := Build(opts)
	if err != nil {
		return err
	}

	if opts.Dispatcher != nil {
		tghelpers.SetDispatcher(opts.Dispatcher)
		defer tghelpers.SetDispatcher(nil)
		defer opts.Dispatcher.Close()
	}

	InitBotCommands(bot, opts.Registry)

	logger.TG.LogAttrs(ctx, slog.LevelInfo, "bot.start",
		slog.String("username", bot.Me.Username),
		slog.Int64("bot_id", bot.Me.ID),
	)

	go func() {
		<-ctx.Done()
		bot.Stop()
	}()

	bot.Start()

	logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "bot.stop")
	return nil
}

// installCommands binds every registered command and its aliases to the
// registry handler.
func installCommands(bot *tele.Bot, reg *Registry) {
	if reg == nil {
		return
	}
	for name, cmd := range reg.Commands() {
		handler := cmd.Handler
		bot.Handle(name, handler)
		for _, alias := range cmd.Aliases {
			if !strings.HasPrefix(alias, "/") {
				alias = "/" + alias
			}
			bot.Handle(alias, handler)
		}
	}
}
