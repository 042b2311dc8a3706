package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/config"
	"github.com/hshehabu/salah-times/internal/aladhan"
	"github.com/hshehabu/salah-times/internal/bot"
	"github.com/hshehabu/salah-times/internal/health"
	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/logger"
	"github.com/hshehabu/salah-times/internal/reminder"
	"github.com/hshehabu/salah-times/internal/session"
	"github.com/hshehabu/salah-times/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("salahbot: %v", err)
	}
}

func run() error {
	// .env is optional; deployments set real env vars.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		_ = logger.Shutdown()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	translations, err := i18n.Load(cfg.App.LocalesDir)
	if err != nil {
		return err
	}

	var store *storage.Store
	if cfg.Database.Configured() {
		if err := storage.RunMigrations(cfg.Database); err != nil {
			return err
		}
		db, err := storage.Connect(cfg.Database)
		if err != nil {
			return err
		}
		store = storage.NewStore(db)
		defer func() {
			_ = store.Close()
		}()
	} else {
		logger.L.Warn("running without persistence",
			slog.String("component", "db"),
			slog.String("event", "disabled"),
		)
	}

	sessions, err := buildSessions(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = sessions.Close()
	}()

	if cfg.Feedback.Recipient == 0 {
		logger.L.Warn("feedback forwarding disabled",
			slog.String("component", "tg"),
			slog.String("event", "feedback.disabled"),
		)
	}

	api := aladhan.NewClient(cfg.PrayerAPI)
	dispatcher := bot.NewDispatcher(bot.DispatcherOptions{})

	handlers := bot.NewHandlers(bot.HandlersOptions{
		Translations:      translations,
		Store:             store,
		Sessions:          sessions,
		API:               api,
		Dispatcher:        dispatcher,
		Persistent:        cfg.Database.Configured(),
		FeedbackRecipient: cfg.Feedback.Recipient,
	})

	go func() {
		if err := health.Serve(ctx, cfg.Health.Listen); err != nil {
			logger.Error(ctx, "health", "serve", slog.String("err", err.Error()))
		}
	}()

	return bot.Run(ctx, bot.RunOptions{
		Config:     cfg,
		Dispatcher: dispatcher,
		Middlewares: []bot.Middleware{
			{Name: "recover", Use: bot.RecoverMiddleware(handlers.ReplyGenericError)},
			{Name: "logger", Use: bot.LoggerMiddleware},
			{Name: "ratelimit", Use: bot.RateLimitMiddleware(bot.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  cfg.RateLimit.ExcludeUpdates,
			})},
		},
		Routes: handlers.Routes(),
		OnBot: func(b *tele.Bot) {
			handlers.SetMessenger(b)
			if cfg.Reminder.Enabled && store != nil {
				sched := reminder.New(reminder.Options{
					Store:    store,
					API:      api,
					Notifier: handlers,
					Config:   cfg.Reminder,
				})
				go sched.Run(ctx)
			}
		},
	})
}

func buildSessions(cfg *config.Config) (session.Manager, error) {
	if cfg.Redis.URI == "" {
		return session.NewMemoryManager(), nil
	}
	return session.NewRedisManager(cfg.Redis.URI)
}
