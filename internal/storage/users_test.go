package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hshehabu/salah-times/internal/i18n"
)

func TestNilStoreDefaults(t *testing.T) {
	var s *Store
	ctx := context.Background()

	p, err := s.Preference(ctx, 99)
	if err != nil {
		t.Fatalf("Preference on nil store: %v", err)
	}
	if p.UserID != 99 || p.City() != "" || p.Lang() != i18n.LangEnglish || p.ReminderEnabled {
		t.Errorf("nil store preference = %+v, want defaults", p)
	}

	if err := s.SaveCity(ctx, 99, "Mecca"); err != nil {
		t.Errorf("SaveCity on nil store: %v", err)
	}
	if err := s.SetLanguage(ctx, 99, i18n.LangArabic); err != nil {
		t.Errorf("SetLanguage on nil store: %v", err)
	}
	if err := s.SetReminder(ctx, 99, true); err != nil {
		t.Errorf("SetReminder on nil store: %v", err)
	}

	prefs, err := s.RemindersEnabled(ctx)
	if err != nil || prefs != nil {
		t.Errorf("RemindersEnabled on nil store = (%v, %v), want (nil, nil)", prefs, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}

func TestPreferenceAccessors(t *testing.T) {
	p := Preference{
		UserID:    1,
		SavedCity: sql.NullString{String: "Istanbul", Valid: true},
		Language:  "ar",
	}
	if p.City() != "Istanbul" {
		t.Errorf("City() = %q, want Istanbul", p.City())
	}
	if p.Lang() != i18n.LangArabic {
		t.Errorf("Lang() = %s, want ar", p.Lang())
	}

	// Unknown language codes fall back to English.
	p.Language = "zz"
	if p.Lang() != i18n.LangEnglish {
		t.Errorf("Lang() with bad code = %s, want en", p.Lang())
	}

	p.SavedCity = sql.NullString{}
	if p.City() != "" {
		t.Errorf("City() on null column = %q, want empty", p.City())
	}
}
