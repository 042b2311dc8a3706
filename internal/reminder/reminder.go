// Package reminder runs the daily prayer-times notification loop. Every
// tick it loads the users who opted in, checks each user's own Fajr time in
// their city's timezone, and notifies the users whose Fajr falls inside the
// current tick window.
package reminder

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hshehabu/salah-times/config"
	"github.com/hshehabu/salah-times/internal/aladhan"
	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/logger"
	"github.com/hshehabu/salah-times/internal/storage"
)

const minutesPerDay = 24 * 60

// Store is the slice of the user store the scheduler consumes.
type Store interface {
	RemindersEnabled(ctx context.Context) ([]storage.Preference, error)
}

// API fetches prayer times for a city.
type API interface {
	Timings(ctx context.Context, city string) (*aladhan.TimingsResult, error)
}

// Notifier delivers a reminder message to a single user.
type Notifier interface {
	SendDailyReminder(ctx context.Context, userID int64, lang i18n.Language, res *aladhan.TimingsResult) error
}

// Scheduler drives the reminder loop.
type Scheduler struct {
	store    Store
	api      API
	notifier Notifier

	interval      time.Duration
	fanOutAll     bool
	maxConcurrent int

	now func() time.Time
}

// Options configures New.
type Options struct {
	Store    Store
	API      API
	Notifier Notifier
	Config   config.ReminderConfig

	// Now overrides the clock in tests.
	Now func() time.Time
}

// New builds a Scheduler from config defaults.
func New(opts Options) *Scheduler {
	interval := time.Duration(opts.Config.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	maxConcurrent := opts.Config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		store:         opts.Store,
		api:           opts.API,
		notifier:      opts.Notifier,
		interval:      interval,
		fanOutAll:     opts.Config.FanOutAll,
		maxConcurrent: maxConcurrent,
		now:           now,
	}
}

// Run ticks until ctx is done. Each tick is independent; a failing tick is
// logged and the loop continues.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Info(ctx, "reminder", "start",
		slog.Duration("interval", s.interval),
		slog.Bool("fan_out_all", s.fanOutAll),
	)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "reminder", "stop")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one reminder pass. Exported for tests and manual triggering.
func (s *Scheduler) Tick(ctx context.Context) {
	users, err := s.store.RemindersEnabled(ctx)
	if err != nil {
		logger.Error(ctx, "reminder", "users.load", slog.String("err", err.Error()))
		return
	}
	if len(users) == 0 {
		return
	}

	now := s.now()
	results := s.fetchAll(ctx, users)

	due := make(map[int64]bool, len(users))
	anyDue := false
	for _, u := range users {
		res := results[u.UserID]
		if res == nil {
			continue
		}
		if s.fajrDue(now, res) {
			due[u.UserID] = true
			anyDue = true
		}
	}

	notified := 0
	for _, u := range users {
		res := results[u.UserID]
		if res == nil {
			continue
		}
		// Legacy fan-out notifies everyone once any user's Fajr is due;
		// each user still gets their own city's times.
		if !due[u.UserID] && !(s.fanOutAll && anyDue) {
			continue
		}
		if err := s.notifier.SendDailyReminder(ctx, u.UserID, u.Lang(), res); err != nil {
			logger.Error(ctx, "reminder", "send",
				slog.Int64("user_id", u.UserID),
				slog.String("err", err.Error()),
			)
			continue
		}
		notified++
	}

	if notified > 0 {
		logger.Info(ctx, "reminder", "tick",
			slog.Int("users", len(users)),
			slog.Int("notified", notified),
		)
	}
}

// fetchAll loads timings for every user with bounded concurrency. A failed
// lookup is logged and the user is skipped for this tick.
func (s *Scheduler) fetchAll(ctx context.Context, users []storage.Preference) map[int64]*aladhan.TimingsResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[int64]*aladhan.TimingsResult, len(users))
	)
	sem := make(chan struct{}, s.maxConcurrent)

	for _, u := range users {
		city := u.City()
		if city == "" {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(userID int64, city string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := s.api.Timings(ctx, city)
			if err != nil {
				logger.Warn(ctx, "reminder", "timings.fetch",
					slog.Int64("user_id", userID),
					slog.String("city", logger.Sanitize(city)),
					slog.String("err", err.Error()),
				)
				return
			}
			mu.Lock()
			results[userID] = res
			mu.Unlock()
		}(u.UserID, city)
	}
	wg.Wait()
	return results
}

// fajrDue reports whether the user's Fajr time falls inside the window
// [now, now+interval) in the city's own timezone.
func (s *Scheduler) fajrDue(now time.Time, res *aladhan.TimingsResult) bool {
	fajrMin, ok := clockMinutes(res.Timings.Fajr)
	if !ok {
		return false
	}

	loc, err := time.LoadLocation(res.Meta.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	nowMin := local.Hour()*60 + local.Minute()

	diff := (fajrMin - nowMin + minutesPerDay) % minutesPerDay
	return diff < int(s.interval.Minutes())
}

// clockMinutes extracts minutes-since-midnight from an aladhan timing
// value, either RFC3339 or "HH:MM" with an optional timezone suffix.
func clockMinutes(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.Hour()*60 + ts.Minute(), true
	}
	if fields := strings.Fields(value); len(fields) > 0 {
		value = fields[0]
	}
	ts, err := time.Parse("15:04", value)
	if err != nil {
		return 0, false
	}
	return ts.Hour()*60 + ts.Minute(), true
}
