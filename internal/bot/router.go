// Package bot wires the Telegram transport: middleware, the conversation
// router that turns free text and button presses into handler calls, the
// outbound send dispatcher, and keyboard rendering.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/internal/aladhan"
	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/logger"
	"github.com/hshehabu/salah-times/internal/session"
	"github.com/hshehabu/salah-times/internal/storage"
)

// Callback uniques.
const (
	cbLanguage = "lang"
	cbReminder = "reminder"
)

// PrayerAPI is the slice of the aladhan client the handlers consume.
type PrayerAPI interface {
	Timings(ctx context.Context, city string) (*aladhan.TimingsResult, error)
	ToHijri(ctx context.Context, date time.Time) (*aladhan.DualDate, error)
}

// PreferenceStore is the persistence surface the handlers consume. A nil
// *storage.Store satisfies it in session-only mode.
type PreferenceStore interface {
	Preference(ctx context.Context, userID int64) (storage.Preference, error)
	SaveCity(ctx context.Context, userID int64, city string) error
	SetLanguage(ctx context.Context, userID int64, lang i18n.Language) error
	SetReminder(ctx context.Context, userID int64, enabled bool) error
}

// Messenger sends messages outside a reply context. Satisfied by *tele.Bot.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// HandlersOptions collects the collaborators of the conversation router.
type HandlersOptions struct {
	Translations *i18n.Table
	Store        PreferenceStore
	Sessions     session.Manager
	API          PrayerAPI
	Dispatcher   *Dispatcher
	Messenger    Messenger

	// Persistent reports whether a real database backs Store. The reminder
	// toggle refuses to pretend when writes would be dropped.
	Persistent bool
	// FeedbackRecipient is the operator chat for forwarded feedback; zero
	// disables the flow.
	FeedbackRecipient int64

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Handlers implements every conversation entry point. All methods are safe
// for concurrent use; per-user ordering is enforced by the keyed lock.
type Handlers struct {
	tr         *i18n.Table
	store      PreferenceStore
	sessions   session.Manager
	locks      *session.UserLocks
	api        PrayerAPI
	dispatcher *Dispatcher
	messenger  Messenger
	persistent bool
	feedbackTo int64
	now        func() time.Time
}

// NewHandlers builds the handler set, defaulting the session manager to
// in-memory and the clock to time.Now.
func NewHandlers(opts HandlersOptions) *Handlers {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewMemoryManager()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		tr:         opts.Translations,
		store:      opts.Store,
		sessions:   sessions,
		locks:      session.NewUserLocks(),
		api:        opts.API,
		dispatcher: opts.Dispatcher,
		messenger:  opts.Messenger,
		persistent: opts.Persistent,
		feedbackTo: opts.FeedbackRecipient,
		now:        now,
	}
}

// SetMessenger installs the out-of-band sender once the bot is built.
// Must be called before the bot starts handling updates.
func (h *Handlers) SetMessenger(m Messenger) {
	h.messenger = m
}

// reply sends markdown-formatted text with optional extras (keyboards).
func reply(c tele.Context, text string, extras ...interface{}) error {
	opts := append([]interface{}{tele.ModeMarkdown}, extras...)
	return c.Send(text, opts...)
}

// profile resolves the user's language and saved city. The store wins when
// it has a value; otherwise the session mirror fills in, so the bot keeps
// its memory when no database is configured or a write was dropped.
func (h *Handlers) profile(ctx context.Context, userID int64) (i18n.Language, string) {
	pref, err := h.store.Preference(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "db", "preference.load",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	city := pref.City()
	if city == "" {
		if c, err := h.sessions.City(ctx, userID); err == nil {
			city = c
		}
	}

	lang, ok := i18n.Parse(pref.Language)
	if !ok {
		lang = i18n.LangEnglish
		if code, err := h.sessions.Language(ctx, userID); err == nil {
			if l, valid := i18n.Parse(code); valid {
				lang = l
			}
		}
	}
	return lang, city
}

// OnText is the free-text conversation router. Resolution order: slash
// commands are ignored (routed separately), the language button works from
// any state, then the pending input if any, then menu-button labels across
// all locales, then quick phrases, and finally residual text is treated as
// a one-off city lookup.
func (h *Handlers) OnText(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	unlock := h.locks.Lock(user.ID)
	defer unlock()

	ctx := buildContext(c)
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		return nil
	}

	lang, city := h.profile(ctx, user.ID)

	if h.tr.IsButton(text, i18n.KeyBtnLanguage) {
		return h.sendLanguagePicker(c, lang)
	}

	pending, err := h.sessions.Pending(ctx, user.ID)
	if err != nil {
		logger.Warn(ctx, "tg", "session.pending",
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
	}
	switch pending {
	case session.PendingCity:
		return h.handleCityInput(ctx, c, text, lang)
	case session.PendingBirthDate:
		return h.handleBirthDateInput(ctx, c, text, lang)
	case session.PendingHijriDate:
		return h.handleHijriDateInput(ctx, c, text, lang)
	case session.PendingFeedback:
		return h.handleFeedbackInput(ctx, c, text, lang, city)
	case session.PendingLocation:
		// Free text while a location share is expected: re-prompt, keep
		// waiting.
		return reply(c, h.tr.T(lang, i18n.KeyPleaseShareLocation))
	}

	if target, ok := h.tr.ButtonPrefix(text, i18n.KeyBtnGetTimes); ok {
		return h.sendTimes(ctx, c, target, lang)
	}

	switch {
	case h.tr.IsButton(text, i18n.KeyBtnMyCity):
		return h.handleMyCity(ctx, c, lang, city)
	case h.tr.IsButton(text, i18n.KeyBtnSetCity), h.tr.IsButton(text, i18n.KeyBtnChangeCity):
		return h.handleSetCity(ctx, c, user.ID, lang)
	case h.tr.IsButton(text, i18n.KeyBtnHelp):
		return h.sendHelp(c, lang, city)
	case h.tr.IsButton(text, i18n.KeyBtnPrayerTimes):
		return h.openPrayerTimesMenu(ctx, c, user.ID, lang, city)
	case h.tr.IsButton(text, i18n.KeyBtnOtherTools):
		return h.openOtherToolsMenu(ctx, c, user.ID, lang)
	case h.tr.IsButton(text, i18n.KeyBtnToHijri):
		return h.promptFor(ctx, c, user.ID, session.PendingHijriDate, lang, i18n.KeySelectDateToConvert)
	case h.tr.IsButton(text, i18n.KeyBtnAgeCalculator):
		return h.promptFor(ctx, c, user.ID, session.PendingBirthDate, lang, i18n.KeyAgeCalculatorPrompt)
	case h.tr.IsButton(text, i18n.KeyBtnIslamicMonths):
		return reply(c, h.FormatIslamicMonths(lang))
	case h.tr.IsButton(text, i18n.KeyBtnRamadanCountdown):
		return reply(c, h.FormatRamadanCountdown(h.now(), lang))
	case h.tr.IsButton(text, i18n.KeyBtnNearbyMasjids):
		return h.promptFor(ctx, c, user.ID, session.PendingLocation, lang, i18n.KeyNearbyMasjidsPrompt)
	case h.tr.IsButton(text, i18n.KeyBtnFeedback):
		return h.promptFeedback(ctx, c, user.ID, lang)
	case h.tr.IsButton(text, i18n.KeyBtnReminder):
		return h.sendReminderMenu(ctx, c, user.ID, lang)
	case h.tr.IsButton(text, i18n.KeyBtnBackToMain):
		return h.backToMain(ctx, c, user.ID, lang, city)
	case h.tr.IsButton(text, i18n.KeyBtnBackToTools):
		return h.openOtherToolsMenu(ctx, c, user.ID, lang)
	case h.tr.IsButton(text, i18n.KeyBtnBackToPrayer):
		return h.openPrayerTimesMenu(ctx, c, user.ID, lang, city)
	}

	if h.tr.IsQuickPhrase(text) {
		return h.handleQuickPhrase(ctx, c, lang, city)
	}

	if len([]rune(text)) < 2 {
		if city != "" {
			return reply(c, h.tr.T(lang, i18n.KeySendCityName)+" "+city+".")
		}
		return reply(c, h.tr.T(lang, i18n.KeySendCityForTimes))
	}
	if len(strings.Fields(text)) > 3 {
		if city != "" {
			return reply(c, h.tr.T(lang, i18n.KeySendJustCityName)+" "+city+".")
		}
		return reply(c, h.tr.T(lang, i18n.KeySendJustCity))
	}

	// One-off lookup: the city is not persisted.
	return h.sendTimes(ctx, c, text, lang)
}

// OnLocation handles a shared location for the nearby-masjids flow.
func (h *Handlers) OnLocation(c tele.Context) error {
	user := c.Sender()
	if user == nil || c.Message() == nil || c.Message().Location == nil {
		return nil
	}
	unlock := h.locks.Lock(user.ID)
	defer unlock()

	ctx := buildContext(c)
	lang, _ := h.profile(ctx, user.ID)
	loc := c.Message().Location
	return h.handleLocationShare(ctx, c, user.ID, lang, float64(loc.Lat), float64(loc.Lng))
}

// OnCallback routes inline button presses by their unique key.
func (h *Handlers) OnCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || c.Sender() == nil {
		return nil
	}
	unlock := h.locks.Lock(c.Sender().ID)
	defer unlock()

	key, payload := parseCallback(cb)
	switch key {
	case cbLanguage:
		return h.handleLanguageCallback(c, payload)
	case cbReminder:
		return h.handleReminderCallback(c, payload)
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}
}

func parseCallback(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}
