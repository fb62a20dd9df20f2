// Package poller runs the poll-evaluate-notify cycle for a single homework
// feed.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"homework-bot/api/internal/homework"
)

// NoNewsMessage is logged when a poll returns no homeworks. It is never sent.
const NoNewsMessage = "no new homework statuses"

// Fetcher returns the decoded body of one statuses request.
type Fetcher interface {
	Statuses(ctx context.Context, fromDate int64) (any, error)
}

// Notifier delivers a message and never fails.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Loop holds the cursor and the last sent message. Both are owned by the
// goroutine calling Run or Tick and must not be touched concurrently.
type Loop struct {
	fetcher  Fetcher
	notifier Notifier
	verdicts homework.Verdicts
	interval time.Duration
	logger   *slog.Logger

	cursor      int64
	lastMessage string

	lastSuccess atomic.Int64 // unix seconds, read by health checks
	sleep       func(ctx context.Context, d time.Duration) error
}

type Option func(*Loop)

// WithCursor sets the starting from_date. The default is the current time.
func WithCursor(ts int64) Option {
	return func(l *Loop) { l.cursor = ts }
}

// WithSleep replaces the wait between iterations.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loop) { l.sleep = fn }
}

func New(fetcher Fetcher, notifier Notifier, verdicts homework.Verdicts, interval time.Duration, logger *slog.Logger, opts ...Option) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		fetcher:  fetcher,
		notifier: notifier,
		verdicts: verdicts,
		interval: interval,
		logger:   logger,
		cursor:   time.Now().Unix(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cursor returns the from_date used by the next poll.
func (l *Loop) Cursor() int64 { return l.cursor }

// LastMessage returns the most recently sent notification text.
func (l *Loop) LastMessage() string { return l.lastMessage }

// LastSuccess reports when a poll last completed without error.
// Safe to call from any goroutine.
func (l *Loop) LastSuccess() time.Time {
	ts := l.lastSuccess.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// Run polls until ctx is cancelled. Every iteration, failed or not, is
// followed by the fixed interval.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("poller started", "interval", l.interval, "cursor", l.cursor)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Tick(ctx)
		if err := l.sleep(ctx, l.interval); err != nil {
			l.logger.Info("poller stopped", "cursor", l.cursor)
			return err
		}
	}
}

// Tick runs one iteration and contains any failure it produces.
func (l *Loop) Tick(ctx context.Context) {
	err := l.safeIterate(ctx)
	if err == nil {
		l.lastSuccess.Store(time.Now().Unix())
		return
	}
	if ctx.Err() != nil {
		// shutdown in progress, not worth a notification
		l.logger.Debug("iteration interrupted", "error", err)
		return
	}

	message := fmt.Sprintf("Bot failure: %v", err)
	l.logger.Error(message, "error", err, "cursor", l.cursor)
	l.send(ctx, message)
}

func (l *Loop) iterate(ctx context.Context) error {
	response, err := l.fetcher.Statuses(ctx, l.cursor)
	if err != nil {
		return err
	}
	homeworks, err := homework.CheckResponse(response)
	if err != nil {
		return err
	}
	l.logger.Debug("statuses received", "cursor", l.cursor, "homeworks", len(homeworks))

	if len(homeworks) == 0 {
		l.logger.Info(NoNewsMessage, "cursor", l.cursor)
	} else {
		message, err := l.verdicts.ParseStatus(homeworks[0])
		if err != nil {
			return err
		}
		if message == l.lastMessage {
			l.logger.Info("status unchanged", "message", message)
		} else {
			l.send(ctx, message)
		}
	}

	if ts, ok := homework.CurrentDate(response); ok {
		l.cursor = ts
	} else {
		l.logger.Warn("current_date is not an integer, keeping cursor", "cursor", l.cursor)
	}
	return nil
}

// send delivers message unless it repeats the last one.
func (l *Loop) send(ctx context.Context, message string) {
	if message == l.lastMessage {
		return
	}
	l.notifier.Notify(ctx, message)
	l.lastMessage = message
}

// safeIterate turns a panic into an error. The correlation id and stack go
// only to the log so a repeating panic yields the same message each time.
func (l *Loop) safeIterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			l.logger.Error("iteration panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return l.iterate(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
