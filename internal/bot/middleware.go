package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/internal/logger"
)

const ctxKey = "logger_ctx"

// storeContext attaches a context.Context to the telebot context for
// downstream handlers.
func storeContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(ctxKey, ctx)
}

// buildContext returns the request context stored by LoggerMiddleware, or
// constructs one with RID and update metadata when the middleware did not
// run (direct handler tests).
func buildContext(c tele.Context) context.Context {
	if v := c.Get(ctxKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}

	upd := c.Update()
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}

	rid := logger.BuildRID(upd.ID, chatID, userID)
	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	storeContext(c, ctx)
	return ctx
}

// RecoverMiddleware catches handler panics so a single update can never
// crash the process. onPanic, when set, sends the user-facing fallback
// reply.
func RecoverMiddleware(onPanic func(c tele.Context)) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(buildContext(c), "tg", "tg.panic",
						slog.Any("err", r),
						slog.String("stack", string(debug.Stack())),
					)
					if onPanic != nil {
						onPanic(c)
					}
				}
			}()
			return next(c)
		}
	}
}

// LoggerMiddleware builds the per-update request context and logs one
// receipt line.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		storeContext(c, ctx)

		attrs := []slog.Attr{
			slog.String("status", "ok"),
			slog.Int("update_id", upd.ID),
		}
		if text := c.Text(); text != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(text, 256)))
		}
		if upd.Callback != nil {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(upd.Callback.Unique, 128)))
		}
		logger.Debug(ctx, "tg", "update.received", attrs...)

		return next(c)
	}
}

// RateLimitOptions configures the per-user minimum message interval.
type RateLimitOptions struct {
	Interval time.Duration
	Exclude  []string
}

// RateLimitMiddleware enforces a minimum interval between updates from the
// same user. Excluded update kinds pass through untouched.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		lastSeen   = make(map[int64]time.Time)
		lastSeenMu sync.Mutex
	)
	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, kind := range opts.Exclude {
		exclude[kind] = struct{}{}
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			upd := c.Update()
			kind := "other"
			switch {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil:
				kind = "message"
			}
			if _, skip := exclude[kind]; skip {
				return next(c)
			}

			now := time.Now()
			lastSeenMu.Lock()
			if last, ok := lastSeen[user.ID]; ok && now.Sub(last) < opts.Interval {
				lastSeenMu.Unlock()
				logger.Warn(buildContext(c), "tg", "tg.rate_limit",
					slog.Int64("user_id", user.ID),
				)
				return nil
			}
			lastSeen[user.ID] = now
			lastSeenMu.Unlock()
			return next(c)
		}
	}
}
