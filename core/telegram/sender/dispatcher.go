// Package sender executes outbound Telegram calls asynchronously with
// retries, so handlers do not block on the Telegram API.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akhror/zavodbot/core/logger"
	"github.com/akhror/zavodbot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

type job struct {
	ctx    context.Context
	action string
	run    func() error
}

// Dispatcher executes outbound Telegram calls asynchronously with retries.
type Dispatcher struct {
	opts Options
	jobs chan job
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults if options are zeroed.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
		stop: make(chan struct{}),
	}

	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue schedules the provided function for asynchronous execution.
// The run closure must be idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	select {
	case d.jobs <- job{ctx: ctx, action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Deleter is the slice of the bot API needed to remove messages.
type Deleter interface {
	Delete(msg tele.Editable) error
}

// DeleteAfter removes a message once the delay elapses. Used for transient
// notices that should dismiss themselves.
func (d *Dispatcher) DeleteAfter(bot Deleter, msg *tele.Message, delay time.Duration) {
	if bot == nil || msg == nil {
		return
	}
	time.AfterFunc(delay, func() {
		err := d.Enqueue(context.Background(), "delete.transient", func() error {
			return bot.Delete(msg)
		})
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
			_ = bot.Delete(msg)
		}
	})
}

// ErrorCount returns the number of failed jobs.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops workers and waits for them to finish processing queued jobs.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.stop)
		close(d.jobs)
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handleJob(j)
	}
}

func (d *Dispatcher) handleJob(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	var lastErr error
	attempts := d.opts.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := deadlineCtx.Err(); err != nil {
			lastErr = err
			break
		}

		err := j.run()
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx, "tg.sender", "send.retry.success",
					slog.String("action", j.action),
					slog.Int("attempt", attempt),
					slog.Duration("elapsed", logger.RoundMS(time.Since(start))),
				)
			}
			return
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}

		delay := d.opts.RetryBackoff * time.Duration(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-deadlineCtx.Done():
			timer.Stop()
			lastErr = deadlineCtx.Err()
		case <-timer.C:
			continue
		}
		break
	}

	if lastErr != nil {
		d.errs.Add(1)
		logger.Error(ctx, "tg.sender", "send.fail",
			slog.String("action", j.action),
			slog.String("error", sanitizeErrorMessage(lastErr)),
			slog.Int("attempts", attempts),
			slog.Duration("elapsed", logger.RoundMS(time.Since(start))),
		)
	}
}

// sanitizeErrorMessage prevents accidental leakage of Telegram bot tokens in logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
