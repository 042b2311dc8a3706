package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/config"
	"github.com/hshehabu/salah-times/internal/logger"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                config.WebhookConfig
}

// BuildPoller returns a Telebot poller based on provided options.
func BuildPoller(opts PollerOptions) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(opts.RunMode))
	if runMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}

	timeoutSec := opts.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Config *config.Config

	Dispatcher        *Dispatcher
	DispatcherOptions DispatcherOptions

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup bool

	// OnBot exposes the constructed bot before it starts, so callers can
	// hand it to components that send messages on their own schedule.
	OnBot func(b *tele.Bot)
}

// Run composes and runs the Telegram bot until the provided context is done.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("bot: nil config provided")
	}
	cfg := opts.Config

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook:                cfg.Webhook,
	})

	buildStart := time.Now()
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
	})
	if err != nil {
		return fmt.Errorf("bot: initialization failed: %w", err)
	}
	buildTook := time.Since(buildStart)

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = NewDispatcher(opts.DispatcherOptions)
	}

	switch p := poller.(type) {
	case *tele.Webhook:
		logger.TG.Info("webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", "webhook"),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
	default:
		timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
		if timeoutSec <= 0 {
			timeoutSec = 10
		}
		logger.TG.Info("polling mode",
			slog.String("event", "mode"),
			slog.String("mode", "polling"),
			slog.Int("timeout_seconds", timeoutSec),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)

		if !opts.DisableWebhookCleanup && cfg.Telegram.RunMode == config.RunModeLongpoll {
			if err := deleteWebhook(cfg.Telegram.Token, false); err != nil {
				logger.TG.Warn("failed to delete webhook",
					slog.String("event", "delete_webhook"),
					slog.String("err", err.Error()),
				)
			} else {
				logger.TG.Info("webhook deleted",
					slog.String("event", "delete_webhook"),
				)
			}
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		b.Use(mw.Use)
	}

	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		b.Handle(route.Endpoint, route.Handler)
	}

	if opts.OnBot != nil {
		opts.OnBot(b)
	}

	runDone := make(chan struct{})
	go func() {
		b.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		b.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	dispatcher.Close()
	logger.TG.Info("outbound queue drained",
		slog.String("event", "shutdown"),
		slog.Uint64("send_failures", dispatcher.ErrorCount()),
	)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func deleteWebhook(token string, dropPending bool) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/deleteWebhook", token)
	body := "drop_pending_updates=false"
	if dropPending {
		body = "drop_pending_updates=true"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleteWebhook status: %s", resp.Status)
	}
	return nil
}

// Routes returns the full handler table for h, ready for RunOptions.
func (h *Handlers) Routes() []Route {
	return []Route{
		{Endpoint: "/start", Handler: h.OnStart},
		{Endpoint: "/help", Handler: h.OnHelp},
		{Endpoint: tele.OnText, Handler: h.OnText},
		{Endpoint: tele.OnLocation, Handler: h.OnLocation},
		{Endpoint: tele.OnCallback, Handler: h.OnCallback},
	}
}
