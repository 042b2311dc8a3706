// Package session tracks per-user conversation state: which text input the
// bot is waiting for and which reply-keyboard menu is currently shown. State
// lives either in process memory or in Redis; both backends satisfy Manager.
package session

import "context"

// PendingInput names the single text input the bot is waiting for from a
// user. At most one input can be pending at a time; starting a new prompt
// replaces any previous one.
type PendingInput string

const (
	PendingNone      PendingInput = "none"
	PendingCity      PendingInput = "city"
	PendingBirthDate PendingInput = "birth_date"
	PendingHijriDate PendingInput = "hijri_date"
	PendingFeedback  PendingInput = "feedback"
	PendingLocation  PendingInput = "location"
)

// Menu identifies which reply keyboard the user last received. It decides
// which keyboard to re-render after a language change.
type Menu string

const (
	MenuMain        Menu = "main"
	MenuPrayerTimes Menu = "prayer_times"
	MenuOtherTools  Menu = "other_tools"
)

// Manager stores conversation state keyed by Telegram user ID. Reads on a
// user with no stored state return the zero values PendingNone and MenuMain.
//
// City and Language mirror the user's saved preferences so the conversation
// keeps working when no database is configured or a write fails. Empty
// strings mean unset.
type Manager interface {
	Pending(ctx context.Context, userID int64) (PendingInput, error)
	SetPending(ctx context.Context, userID int64, p PendingInput) error
	ClearPending(ctx context.Context, userID int64) error

	Menu(ctx context.Context, userID int64) (Menu, error)
	SetMenu(ctx context.Context, userID int64, m Menu) error

	City(ctx context.Context, userID int64) (string, error)
	SetCity(ctx context.Context, userID int64, city string) error
	Language(ctx context.Context, userID int64) (string, error)
	SetLanguage(ctx context.Context, userID int64, code string) error

	Clear(ctx context.Context, userID int64) error
	Close() error
}
