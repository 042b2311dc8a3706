package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/internal/agecalc"
	"github.com/hshehabu/salah-times/internal/aladhan"
	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/logger"
	"github.com/hshehabu/salah-times/internal/masjid"
	"github.com/hshehabu/salah-times/internal/session"
)

// OnStart greets the user with the main menu. Also registered for /help
// with the help text instead of the welcome.
func (h *Handlers) OnStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	unlock := h.locks.Lock(user.ID)
	defer unlock()

	ctx := buildContext(c)
	lang, city := h.profile(ctx, user.ID)
	return h.backToMain(ctx, c, user.ID, lang, city)
}

// OnHelp replies with usage instructions and the saved-city status.
func (h *Handlers) OnHelp(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := buildContext(c)
	lang, city := h.profile(ctx, user.ID)
	return h.sendHelp(c, lang, city)
}

// ReplyGenericError is the last-resort panic fallback: a generic failure
// message in the user's language so the conversation stays navigable.
func (h *Handlers) ReplyGenericError(c tele.Context) {
	lang := i18n.LangEnglish
	if user := c.Sender(); user != nil {
		lang, _ = h.profile(buildContext(c), user.ID)
	}
	_ = reply(c, h.tr.T(lang, i18n.KeyGenericError))
}

func (h *Handlers) cityStatus(lang i18n.Language, city string) string {
	if city == "" {
		return h.tr.T(lang, i18n.KeyNoCitySaved)
	}
	return fmt.Sprintf("%s *%s*", h.tr.T(lang, i18n.KeyYourSavedCity), city)
}

func (h *Handlers) sendHelp(c tele.Context, lang i18n.Language, city string) error {
	text := fmt.Sprintf("%s %s", h.tr.T(lang, i18n.KeyHelp), h.cityStatus(lang, city))
	return reply(c, text, h.MainMenu(lang, city))
}

// backToMain resets the conversation: any pending input is dropped and the
// main menu is re-rendered.
func (h *Handlers) backToMain(ctx context.Context, c tele.Context, userID int64, lang i18n.Language, city string) error {
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	if err := h.sessions.SetMenu(ctx, userID, session.MenuMain); err != nil {
		logger.Warn(ctx, "tg", "session.menu", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	text := fmt.Sprintf("%s %s", h.tr.T(lang, i18n.KeyWelcome), h.cityStatus(lang, city))
	return reply(c, text, h.MainMenu(lang, city))
}

func (h *Handlers) openPrayerTimesMenu(ctx context.Context, c tele.Context, userID int64, lang i18n.Language, city string) error {
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	if err := h.sessions.SetMenu(ctx, userID, session.MenuPrayerTimes); err != nil {
		logger.Warn(ctx, "tg", "session.menu", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	return reply(c, h.tr.T(lang, i18n.KeyPrayerTimesMenu), h.PrayerTimesMenu(lang, city))
}

func (h *Handlers) openOtherToolsMenu(ctx context.Context, c tele.Context, userID int64, lang i18n.Language) error {
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	if err := h.sessions.SetMenu(ctx, userID, session.MenuOtherTools); err != nil {
		logger.Warn(ctx, "tg", "session.menu", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	return reply(c, h.tr.T(lang, i18n.KeyOtherToolsMenu), h.OtherToolsMenu(lang))
}

// promptFor puts the conversation into a waiting state and sends the
// matching prompt.
func (h *Handlers) promptFor(ctx context.Context, c tele.Context, userID int64, p session.PendingInput, lang i18n.Language, promptKey string) error {
	if err := h.sessions.SetPending(ctx, userID, p); err != nil {
		logger.Warn(ctx, "tg", "session.pending.set", slog.Int64("user_id", userID), slog.String("err", err.Error()))
		return reply(c, h.tr.T(lang, i18n.KeyGenericError))
	}
	return reply(c, h.tr.T(lang, promptKey))
}

// sendTimes fetches and renders prayer times for city. The city is never
// persisted here; saving happens only through the set-city flow.
func (h *Handlers) sendTimes(ctx context.Context, c tele.Context, city string, lang i18n.Language) error {
	res, err := h.api.Timings(ctx, city)
	if err != nil {
		switch {
		case errors.Is(err, aladhan.ErrCityNotFound):
			return reply(c, h.tr.T(lang, i18n.KeyUnableToFind))
		case errors.Is(err, aladhan.ErrUnavailable):
			return reply(c, h.tr.T(lang, i18n.KeyServiceUnavailable))
		default:
			return reply(c, h.tr.T(lang, i18n.KeyGenericError))
		}
	}
	return reply(c, h.FormatPrayerTimes(res, lang))
}

// handleMyCity shows the saved city with next actions, or nudges the user
// to save one.
func (h *Handlers) handleMyCity(ctx context.Context, c tele.Context, lang i18n.Language, city string) error {
	if city == "" {
		text := fmt.Sprintf("%s\n\n%s",
			h.tr.T(lang, i18n.KeyNoCitySpecified),
			h.tr.T(lang, i18n.KeyUseBelowToSave),
		)
		return reply(c, text, h.MainMenu(lang, city))
	}
	text := fmt.Sprintf("%s *%s*\n\n%s\n%s",
		h.tr.T(lang, i18n.KeyCurrentCity), city,
		h.tr.T(lang, i18n.KeyTapGetTimes),
		h.tr.T(lang, i18n.KeyTapChangeCity),
	)
	return reply(c, text, h.MainMenu(lang, city))
}

// handleSetCity starts the save-city flow.
func (h *Handlers) handleSetCity(ctx context.Context, c tele.Context, userID int64, lang i18n.Language) error {
	return h.promptFor(ctx, c, userID, session.PendingCity, lang, i18n.KeySetCity)
}

// handleCityInput consumes text while a city is pending. Too-short input
// keeps the flow waiting; lookup failures end it. On success the city is
// saved and the current times follow in a second message.
func (h *Handlers) handleCityInput(ctx context.Context, c tele.Context, text string, lang i18n.Language) error {
	userID := c.Sender().ID
	if len([]rune(text)) < 2 {
		return reply(c, h.tr.T(lang, i18n.KeySendValidCity))
	}

	res, err := h.api.Timings(ctx, text)
	if err != nil {
		if clearErr := h.sessions.ClearPending(ctx, userID); clearErr != nil {
			logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", clearErr.Error()))
		}
		if errors.Is(err, aladhan.ErrCityNotFound) {
			return reply(c, h.tr.T(lang, i18n.KeyUnableToFind))
		}
		return reply(c, h.tr.T(lang, i18n.KeyServiceUnavailable))
	}

	if err := h.store.SaveCity(ctx, userID, text); err != nil {
		// The lookup succeeded; the session mirror below still remembers it.
		logger.Error(ctx, "db", "city.save",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	if err := h.sessions.SetCity(ctx, userID, text); err != nil {
		logger.Warn(ctx, "tg", "session.city", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}

	confirm := fmt.Sprintf("✅ *%s*\n\n%s *%s*",
		h.tr.T(lang, i18n.KeyCitySaved),
		h.tr.T(lang, i18n.KeyYourDefaultCity), text,
	)
	if err := reply(c, confirm, h.MainMenu(lang, text)); err != nil {
		return err
	}
	times := fmt.Sprintf("%s\n\n%s",
		h.tr.T(lang, i18n.KeyCurrentPrayerTimes),
		h.FormatPrayerTimes(res, lang),
	)
	return reply(c, times)
}

// handleQuickPhrase serves "times", "now" and friends from the saved city.
// Without a saved city the phrase nudges toward the set-city flow.
func (h *Handlers) handleQuickPhrase(ctx context.Context, c tele.Context, lang i18n.Language, city string) error {
	if city == "" {
		return reply(c, h.tr.T(lang, i18n.KeySendCityForTimes))
	}
	return h.sendTimes(ctx, c, city, lang)
}

// handleBirthDateInput consumes text while a birth date is pending. The
// waiting state ends whatever the outcome.
func (h *Handlers) handleBirthDateInput(ctx context.Context, c tele.Context, text string, lang i18n.Language) error {
	userID := c.Sender().ID
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}

	now := h.now()
	birth, err := agecalc.ParseBirthDate(text, now)
	if err != nil {
		return reply(c, h.tr.T(lang, dateErrorKey(err)))
	}

	report, err := agecalc.BuildReport(ctx, h.api, birth, now)
	if err != nil {
		logger.Warn(ctx, "api", "age.report",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return reply(c, h.tr.T(lang, i18n.KeyServiceUnavailable))
	}
	return reply(c, h.FormatAgeReport(report, lang))
}

// handleHijriDateInput consumes text while a conversion date is pending.
func (h *Handlers) handleHijriDateInput(ctx context.Context, c tele.Context, text string, lang i18n.Language) error {
	userID := c.Sender().ID
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}

	date, err := agecalc.ParseDate(text)
	if err != nil {
		return reply(c, h.tr.T(lang, dateErrorKey(err)))
	}

	dual, err := h.api.ToHijri(ctx, date)
	if err != nil {
		logger.Warn(ctx, "api", "hijri.convert",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return reply(c, h.tr.T(lang, i18n.KeyConversionError))
	}
	return reply(c, h.FormatConversion(dual, lang))
}

func dateErrorKey(err error) string {
	switch {
	case errors.Is(err, agecalc.ErrFormat):
		return i18n.KeyInvalidDateFormat
	case errors.Is(err, agecalc.ErrFuture):
		return i18n.KeyDateInFuture
	default:
		return i18n.KeyInvalidDate
	}
}

// promptFeedback starts the feedback flow, or reports it disabled when no
// recipient is configured.
func (h *Handlers) promptFeedback(ctx context.Context, c tele.Context, userID int64, lang i18n.Language) error {
	if h.feedbackTo == 0 {
		return reply(c, h.tr.T(lang, i18n.KeyFeedbackDisabled))
	}
	return h.promptFor(ctx, c, userID, session.PendingFeedback, lang, i18n.KeyFeedbackPrompt)
}

// handleFeedbackInput forwards the message to the operator chat without the
// sender's identity. Delivery goes through the dispatcher so a slow
// Telegram call never blocks the conversation. Navigation buttons cancel
// the flow instead of being forwarded as feedback text.
func (h *Handlers) handleFeedbackInput(ctx context.Context, c tele.Context, text string, lang i18n.Language, city string) error {
	userID := c.Sender().ID
	switch {
	case h.tr.IsButton(text, i18n.KeyBtnBackToMain):
		return h.backToMain(ctx, c, userID, lang, city)
	case h.tr.IsButton(text, i18n.KeyBtnBackToTools):
		return h.openOtherToolsMenu(ctx, c, userID, lang)
	}
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	if h.feedbackTo == 0 {
		return reply(c, h.tr.T(lang, i18n.KeyFeedbackDisabled))
	}

	forward := fmt.Sprintf("💬 *Feedback* (%s, %s)\n\n%s",
		lang, h.now().UTC().Format("2006-01-02 15:04 MST"), text,
	)
	recipient := &tele.User{ID: h.feedbackTo}
	send := func() error {
		_, err := h.messenger.Send(recipient, forward, tele.ModeMarkdown)
		return err
	}

	var err error
	if h.dispatcher != nil {
		err = h.dispatcher.Enqueue(ctx, "feedback.forward", send)
	} else {
		err = send()
	}
	if err != nil {
		logger.Error(ctx, "tg", "feedback.forward",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return reply(c, h.tr.T(lang, i18n.KeyFeedbackError))
	}
	return reply(c, h.tr.T(lang, i18n.KeyFeedbackSent))
}

// handleLocationShare answers a shared location with a maps link for
// nearby masjids and ends any waiting state.
func (h *Handlers) handleLocationShare(ctx context.Context, c tele.Context, userID int64, lang i18n.Language, lat, lng float64) error {
	if err := h.sessions.ClearPending(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "session.clear", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}

	url, err := masjid.SearchURL(lat, lng)
	if err != nil {
		return reply(c, h.tr.T(lang, i18n.KeyInvalidLocation))
	}
	return reply(c, h.tr.T(lang, i18n.KeyNearbyMasjidsFound), h.MasjidLinkKeyboard(lang, url))
}

// SendDailyReminder delivers the scheduled prayer times message to a user
// outside any reply context. Used by the reminder scheduler.
func (h *Handlers) SendDailyReminder(ctx context.Context, userID int64, lang i18n.Language, res *aladhan.TimingsResult) error {
	text := fmt.Sprintf("⏰ *%s*\n\n%s",
		h.tr.T(lang, i18n.KeyDailyReminder),
		h.FormatPrayerTimes(res, lang),
	)
	recipient := &tele.User{ID: userID}
	send := func() error {
		_, err := h.messenger.Send(recipient, text, tele.ModeMarkdown)
		return err
	}
	if h.dispatcher != nil {
		return h.dispatcher.Enqueue(ctx, "reminder.send", send)
	}
	return send()
}

// sendLanguagePicker shows the inline language choices. Works from any
// conversation state without disturbing it.
func (h *Handlers) sendLanguagePicker(c tele.Context, lang i18n.Language) error {
	return reply(c, h.tr.T(lang, i18n.KeySelectLanguage), LanguagePicker())
}

// handleLanguageCallback applies a language choice and re-renders the
// keyboard of whichever menu the user is currently on.
func (h *Handlers) handleLanguageCallback(c tele.Context, payload string) error {
	userID := c.Sender().ID
	ctx := buildContext(c)

	lang, ok := i18n.Parse(payload)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported language"})
	}
	if err := h.store.SetLanguage(ctx, userID, lang); err != nil {
		logger.Error(ctx, "db", "language.save",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	if err := h.sessions.SetLanguage(ctx, userID, string(lang)); err != nil {
		logger.Warn(ctx, "tg", "session.language", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		logger.Warn(ctx, "tg", "callback.respond", slog.String("err", err.Error()))
	}

	_, city := h.profile(ctx, userID)
	menu, err := h.sessions.Menu(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "tg", "session.menu", slog.Int64("user_id", userID), slog.String("err", err.Error()))
		menu = session.MenuMain
	}
	text := fmt.Sprintf(h.tr.T(lang, i18n.KeyLanguageChanged), i18n.Info(lang).NativeName)
	return reply(c, text, h.MenuKeyboard(menu, lang, city))
}

// sendReminderMenu shows the reminder status with the toggle button.
func (h *Handlers) sendReminderMenu(ctx context.Context, c tele.Context, userID int64, lang i18n.Language) error {
	pref, err := h.store.Preference(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "db", "preference.load", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
	status := i18n.KeyStatusDisabled
	if pref.ReminderEnabled {
		status = i18n.KeyStatusEnabled
	}
	text := fmt.Sprintf(h.tr.T(lang, i18n.KeyReminderMenu), h.tr.T(lang, status))
	return reply(c, text, h.ReminderKeyboard(lang, pref.ReminderEnabled))
}

// handleReminderCallback toggles the daily reminder. Requires a saved city
// and working persistence.
func (h *Handlers) handleReminderCallback(c tele.Context, payload string) error {
	userID := c.Sender().ID
	ctx := buildContext(c)
	lang, city := h.profile(ctx, userID)

	enable := strings.TrimSpace(payload) == "on"
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		logger.Warn(ctx, "tg", "callback.respond", slog.String("err", err.Error()))
	}

	if enable && city == "" {
		return reply(c, h.tr.T(lang, i18n.KeyReminderNoCity))
	}
	if !h.persistent {
		return reply(c, h.tr.T(lang, i18n.KeyReminderError))
	}
	if err := h.store.SetReminder(ctx, userID, enable); err != nil {
		logger.Error(ctx, "db", "reminder.save",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return reply(c, h.tr.T(lang, i18n.KeyReminderError))
	}

	key := i18n.KeyReminderDisabled
	if enable {
		key = i18n.KeyReminderEnabled
	}
	return reply(c, h.tr.T(lang, key), h.ReminderKeyboard(lang, enable))
}
