package telegram

import (
	"time"

	"github.com/akhror/zavodbot/core/config"
	"github.com/akhror/zavodbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares assembles the standard middleware chain: panic
// recovery first, then optional per-user rate limiting, then update
// logging and context seeding.
func DefaultMiddlewares(cfg config.RateLimitConfig) []tele.MiddlewareFunc {
	chain := []tele.MiddlewareFunc{middleware.Recover}

	if cfg.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.ExcludeUpdates))
		for _, kind := range cfg.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		chain = append(chain, middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval: time.Duration(cfg.IntervalMS) * time.Millisecond,
			Exclude:  exclude,
		}))
	}

	chain = append(chain, middleware.LoggerMiddleware)
	return chain
}
