package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hshehabu/salah-times/internal/i18n"
)

// Preference is a user's persisted settings row.
type Preference struct {
	UserID          int64           `db:"user_id"`
	SavedCity       sql.NullString  `db:"saved_city"`
	Language        string          `db:"language"`
	ReminderEnabled bool            `db:"reminder_enabled"`
	QuranSchedule   json.RawMessage `db:"quran_schedule"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// City returns the saved city or empty when none is stored.
func (p Preference) City() string {
	if p.SavedCity.Valid {
		return p.SavedCity.String
	}
	return ""
}

// Lang returns the stored language as a validated i18n code.
func (p Preference) Lang() i18n.Language {
	if lang, ok := i18n.Parse(p.Language); ok {
		return lang
	}
	return i18n.LangEnglish
}

// Store reads and writes user preferences. A nil *Store is a valid
// no-database mode: reads return defaults and writes are dropped, so every
// caller can hold one without checking for configuration.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// defaultPreference leaves Language empty so callers can tell "no row" from
// a stored choice; Lang() still resolves it to English.
func defaultPreference(userID int64) Preference {
	return Preference{UserID: userID}
}

// Preference loads a user's row. Unknown users and nil stores get defaults.
func (s *Store) Preference(ctx context.Context, userID int64) (Preference, error) {
	if s == nil || s.db == nil {
		return defaultPreference(userID), nil
	}
	var p Preference
	err := s.db.GetContext(ctx, &p,
		`SELECT user_id, saved_city, language, reminder_enabled, quran_schedule, updated_at
		 FROM users WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return defaultPreference(userID), nil
	}
	if err != nil {
		return defaultPreference(userID), fmt.Errorf("load preference: %w", err)
	}
	return p, nil
}

// SaveCity upserts the user's saved city.
func (s *Store) SaveCity(ctx context.Context, userID int64, city string) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, saved_city, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET saved_city = EXCLUDED.saved_city, updated_at = now()`,
		userID, city)
	if err != nil {
		return fmt.Errorf("save city: %w", err)
	}
	return nil
}

// SetLanguage upserts the user's interface language.
func (s *Store) SetLanguage(ctx context.Context, userID int64, lang i18n.Language) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, language, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET language = EXCLUDED.language, updated_at = now()`,
		userID, string(lang))
	if err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// SetReminder upserts the user's daily reminder flag.
func (s *Store) SetReminder(ctx context.Context, userID int64, enabled bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, reminder_enabled, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET reminder_enabled = EXCLUDED.reminder_enabled, updated_at = now()`,
		userID, enabled)
	if err != nil {
		return fmt.Errorf("set reminder: %w", err)
	}
	return nil
}

// RemindersEnabled lists users who opted into daily reminders and have a
// saved city to resolve times for.
func (s *Store) RemindersEnabled(ctx context.Context) ([]Preference, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var prefs []Preference
	err := s.db.SelectContext(ctx, &prefs,
		`SELECT user_id, saved_city, language, reminder_enabled, quran_schedule, updated_at
		 FROM users WHERE reminder_enabled AND saved_city IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list reminder users: %w", err)
	}
	return prefs, nil
}

// Close releases the pool. Safe on nil stores.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
