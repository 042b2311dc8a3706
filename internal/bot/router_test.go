package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/internal/aladhan"
	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/session"
	"github.com/hshehabu/salah-times/internal/storage"
)

var (
	tableOnce sync.Once
	table     *i18n.Table
)

func testTable(t *testing.T) *i18n.Table {
	t.Helper()
	tableOnce.Do(func() {
		var err error
		table, err = i18n.Load("../../locales")
		if err != nil {
			t.Fatalf("load locales: %v", err)
		}
	})
	return table
}

type sentMessage struct {
	text   string
	markup *tele.ReplyMarkup
}

// fakeTeleContext stubs only the tele.Context methods the handlers touch.
// Calling anything else panics through the nil embedded interface.
type fakeTeleContext struct {
	tele.Context

	user *tele.User
	text string
	msg  *tele.Message
	cb   *tele.Callback

	sent      []sentMessage
	responses []*tele.CallbackResponse
	store     map[string]any
}

func newFakeContext(userID int64, text string) *fakeTeleContext {
	return &fakeTeleContext{
		user: &tele.User{ID: userID},
		text: text,
	}
}

func (f *fakeTeleContext) Sender() *tele.User     { return f.user }
func (f *fakeTeleContext) Chat() *tele.Chat       { return &tele.Chat{ID: f.user.ID} }
func (f *fakeTeleContext) Text() string           { return f.text }
func (f *fakeTeleContext) Update() tele.Update {
	return tele.Update{ID: 1, Message: f.msg, Callback: f.cb}
}
func (f *fakeTeleContext) Message() *tele.Message { return f.msg }
func (f *fakeTeleContext) Callback() *tele.Callback {
	return f.cb
}

func (f *fakeTeleContext) Send(what interface{}, opts ...interface{}) error {
	text, _ := what.(string)
	var markup *tele.ReplyMarkup
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			markup = m
		}
	}
	f.sent = append(f.sent, sentMessage{text: text, markup: markup})
	return nil
}

func (f *fakeTeleContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	f.responses = append(f.responses, resp[0])
	return nil
}

func (f *fakeTeleContext) Set(key string, val any) {
	if f.store == nil {
		f.store = map[string]any{}
	}
	f.store[key] = val
}

func (f *fakeTeleContext) Get(key string) any { return f.store[key] }

func (f *fakeTeleContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent, "expected a reply")
	return f.sent[len(f.sent)-1].text
}

type fakeStore struct {
	mu        sync.Mutex
	cities    map[int64]string
	languages map[int64]i18n.Language
	reminders map[int64]bool
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cities:    map[int64]string{},
		languages: map[int64]i18n.Language{},
		reminders: map[int64]bool{},
	}
}

func (f *fakeStore) Preference(_ context.Context, userID int64) (storage.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := storage.Preference{UserID: userID, Language: "en", ReminderEnabled: f.reminders[userID]}
	if lang, ok := f.languages[userID]; ok {
		p.Language = string(lang)
	}
	if city, ok := f.cities[userID]; ok {
		p.SavedCity.String = city
		p.SavedCity.Valid = true
	}
	return p, nil
}

func (f *fakeStore) SaveCity(_ context.Context, userID int64, city string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cities[userID] = city
	return nil
}

func (f *fakeStore) SetLanguage(_ context.Context, userID int64, lang i18n.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.languages[userID] = lang
	return nil
}

func (f *fakeStore) SetReminder(_ context.Context, userID int64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[userID] = enabled
	return nil
}

type fakeAPI struct {
	mu     sync.Mutex
	byCity map[string]*aladhan.TimingsResult
	hijri  func(time.Time) (*aladhan.DualDate, error)
	calls  []string
	err    error
}

func (f *fakeAPI) Timings(_ context.Context, city string) (*aladhan.TimingsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, city)
	if f.err != nil {
		return nil, f.err
	}
	key := strings.ToLower(city)
	res, ok := f.byCity[key]
	if !ok {
		return nil, aladhan.ErrCityNotFound
	}
	return res, nil
}

func (f *fakeAPI) ToHijri(_ context.Context, date time.Time) (*aladhan.DualDate, error) {
	if f.hijri == nil {
		return nil, aladhan.ErrUnavailable
	}
	return f.hijri(date)
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []string
	to   []tele.Recipient
	err  error
}

func (f *fakeMessenger) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	text, _ := what.(string)
	f.sent = append(f.sent, text)
	f.to = append(f.to, to)
	return &tele.Message{}, nil
}

func cairoTimings() *aladhan.TimingsResult {
	return &aladhan.TimingsResult{
		City: "cairo",
		Timings: aladhan.Timings{
			Fajr: "04:45", Dhuhr: "12:30", Asr: "15:45", Maghrib: "18:30", Isha: "20:00",
		},
		Meta: aladhan.Meta{Timezone: "Africa/Cairo"},
	}
}

type testEnv struct {
	h     *Handlers
	store *fakeStore
	api   *fakeAPI
	msgr  *fakeMessenger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	api := &fakeAPI{byCity: map[string]*aladhan.TimingsResult{
		"cairo": cairoTimings(),
		"fe":    cairoTimings(),
	}}
	msgr := &fakeMessenger{}
	h := NewHandlers(HandlersOptions{
		Translations:      testTable(t),
		Store:             store,
		API:               api,
		Messenger:         msgr,
		Persistent:        true,
		FeedbackRecipient: 777,
		Now: func() time.Time {
			return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
		},
	})
	return &testEnv{h: h, store: store, api: api, msgr: msgr}
}

func (e *testEnv) pending(t *testing.T, userID int64) session.PendingInput {
	t.Helper()
	p, err := e.h.sessions.Pending(context.Background(), userID)
	require.NoError(t, err)
	return p
}

func (e *testEnv) en(key string, args ...any) string {
	return e.h.tr.T(i18n.LangEnglish, key, args...)
}

func TestSlashTextIgnored(t *testing.T) {
	env := newTestEnv(t)
	c := newFakeContext(1, "/unknown")
	require.NoError(t, env.h.OnText(c))
	require.Empty(t, c.sent)
}

func TestDirectLookupNotPersisted(t *testing.T) {
	env := newTestEnv(t)
	c := newFakeContext(1, "Cairo")

	require.NoError(t, env.h.OnText(c))

	require.Contains(t, c.lastText(t), env.en(i18n.KeyPrayerTimesFor))
	require.Contains(t, c.lastText(t), "Cairo")
	require.Empty(t, env.store.cities, "direct lookup must not save the city")
}

func TestSetCityFlowSavesCity(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, env.en(i18n.KeyBtnSetCity))
	require.NoError(t, env.h.OnText(c))
	require.Equal(t, session.PendingCity, env.pending(t, 1))
	require.Contains(t, c.lastText(t), "📍")

	c = newFakeContext(1, "Cairo")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, "Cairo", env.store.cities[1])
	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Len(t, c.sent, 2)
	require.Contains(t, c.sent[0].text, env.en(i18n.KeyCitySaved))
	require.NotNil(t, c.sent[0].markup)
	require.Contains(t, c.sent[1].text, env.en(i18n.KeyCurrentPrayerTimes))
}

func TestCityInputTooShortStaysPending(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, "A")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeySendValidCity), c.lastText(t))
	require.Equal(t, session.PendingCity, env.pending(t, 1))
}

func TestTwoCharCityAccepted(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, "Fe")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Equal(t, "Fe", env.store.cities[1], "two runes pass validation and persist")
}

func TestCityInputNotFoundClearsPending(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, "Atlantis")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeyUnableToFind), c.lastText(t))
	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Empty(t, env.store.cities)
}

func TestCityInputUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.api.err = aladhan.ErrUnavailable
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, "Cairo")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeyServiceUnavailable), c.lastText(t))
	require.Equal(t, session.PendingNone, env.pending(t, 1))
}

func TestSaveFailureStillShowsTimes(t *testing.T) {
	env := newTestEnv(t)
	env.store.saveErr = errors.New("connection refused")
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, "Cairo")
	require.NoError(t, env.h.OnText(c))

	require.Len(t, c.sent, 2)
	require.Contains(t, c.sent[1].text, env.en(i18n.KeyPrayerTimesFor))
}

func TestSaveFailureDegradesToSession(t *testing.T) {
	env := newTestEnv(t)
	env.store.saveErr = errors.New("connection refused")
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, "Cairo")
	require.NoError(t, env.h.OnText(c))
	require.Empty(t, env.store.cities)

	c = newFakeContext(1, env.en(i18n.KeyBtnMyCity))
	require.NoError(t, env.h.OnText(c))
	require.Contains(t, c.lastText(t), "Cairo", "session keeps the city the store dropped")
}

func TestSessionOnlyModeRemembersPreferences(t *testing.T) {
	api := &fakeAPI{byCity: map[string]*aladhan.TimingsResult{"cairo": cairoTimings()}}
	h := NewHandlers(HandlersOptions{
		Translations: testTable(t),
		Store:        (*storage.Store)(nil),
		API:          api,
		Messenger:    &fakeMessenger{},
		Now: func() time.Time {
			return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
		},
	})

	c := newFakeContext(1, h.tr.T(i18n.LangEnglish, i18n.KeyBtnSetCity))
	require.NoError(t, h.OnText(c))
	c = newFakeContext(1, "Cairo")
	require.NoError(t, h.OnText(c))
	require.Contains(t, c.sent[0].text, h.tr.T(i18n.LangEnglish, i18n.KeyCitySaved))

	c = newFakeContext(1, h.tr.T(i18n.LangEnglish, i18n.KeyBtnMyCity))
	require.NoError(t, h.OnText(c))
	require.Contains(t, c.lastText(t), "Cairo")

	c = newFakeContext(1, "")
	c.cb = &tele.Callback{Unique: cbLanguage, Data: "am"}
	require.NoError(t, h.OnCallback(c))

	c = newFakeContext(1, h.tr.T(i18n.LangAmharic, i18n.KeyBtnMyCity))
	require.NoError(t, h.OnText(c))
	require.Contains(t, c.lastText(t), h.tr.T(i18n.LangAmharic, i18n.KeyCurrentCity))
	require.Contains(t, c.lastText(t), "Cairo")
}

func TestQuickPhraseWithSavedCity(t *testing.T) {
	env := newTestEnv(t)
	env.store.cities[1] = "Cairo"

	c := newFakeContext(1, "times")
	require.NoError(t, env.h.OnText(c))

	require.Contains(t, c.lastText(t), env.en(i18n.KeyPrayerTimesFor))
	require.Equal(t, []string{"Cairo"}, env.api.calls)
}

func TestQuickPhraseWithoutCity(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, "NOW")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeySendCityForTimes), c.lastText(t))
	require.Empty(t, env.api.calls)
}

func TestTooManyWordsHint(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, "what are the prayer times here")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeySendJustCity), c.lastText(t))
	require.Empty(t, env.api.calls)
}

func TestGetTimesButtonPrefix(t *testing.T) {
	env := newTestEnv(t)
	env.store.cities[1] = "Cairo"

	c := newFakeContext(1, env.en(i18n.KeyBtnGetTimes)+" Cairo")
	require.NoError(t, env.h.OnText(c))

	require.Contains(t, c.lastText(t), env.en(i18n.KeyPrayerTimesFor))
	require.Equal(t, []string{"Cairo"}, env.api.calls)
}

func TestBackToMainClearsPending(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingFeedback))
	require.NoError(t, env.h.sessions.SetMenu(context.Background(), 1, session.MenuOtherTools))

	c := newFakeContext(1, env.en(i18n.KeyBtnBackToMain))
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, session.PendingNone, env.pending(t, 1))
	menu, err := env.h.sessions.Menu(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, session.MenuMain, menu)
	require.Contains(t, c.lastText(t), env.en(i18n.KeyNoCitySaved))
	require.NotNil(t, c.sent[0].markup)
	require.Empty(t, env.msgr.sent, "the button press must not be forwarded as feedback")
}

func TestLanguageButtonKeepsPending(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingCity))

	c := newFakeContext(1, env.en(i18n.KeyBtnLanguage))
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeySelectLanguage), c.lastText(t))
	require.NotNil(t, c.sent[0].markup)
	require.Equal(t, session.PendingCity, env.pending(t, 1), "picker must not disturb the flow")
}

func TestLanguageCallbackRerendersCurrentMenu(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetMenu(context.Background(), 1, session.MenuOtherTools))

	c := newFakeContext(1, "")
	c.cb = &tele.Callback{Unique: cbLanguage, Data: "ar"}
	require.NoError(t, env.h.OnCallback(c))

	require.Equal(t, i18n.LangArabic, env.store.languages[1])
	require.Len(t, c.responses, 1)

	last := c.sent[len(c.sent)-1]
	require.Contains(t, last.text, i18n.Info(i18n.LangArabic).NativeName)
	require.NotNil(t, last.markup)

	arabicTools := env.h.tr.T(i18n.LangArabic, i18n.KeyBtnToHijri)
	found := false
	for _, row := range last.markup.ReplyKeyboard {
		for _, btn := range row {
			if btn.Text == arabicTools {
				found = true
			}
		}
	}
	require.True(t, found, "keyboard must be re-rendered for the current menu in the new language")
}

func TestLanguageCallbackRejectsUnknownCode(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, "")
	c.cb = &tele.Callback{Unique: cbLanguage, Data: "xx"}
	require.NoError(t, env.h.OnCallback(c))

	require.Empty(t, env.store.languages)
	require.Len(t, c.responses, 1)
	require.Empty(t, c.sent)
}

func TestReminderToggle(t *testing.T) {
	env := newTestEnv(t)
	env.store.cities[1] = "Cairo"

	c := newFakeContext(1, "")
	c.cb = &tele.Callback{Unique: cbReminder, Data: "on"}
	require.NoError(t, env.h.OnCallback(c))

	require.True(t, env.store.reminders[1])
	require.Contains(t, c.lastText(t), env.en(i18n.KeyStatusEnabled))

	c = newFakeContext(1, "")
	c.cb = &tele.Callback{Unique: cbReminder, Data: "off"}
	require.NoError(t, env.h.OnCallback(c))
	require.False(t, env.store.reminders[1])
}

func TestReminderRequiresCity(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, "")
	c.cb = &tele.Callback{Unique: cbReminder, Data: "on"}
	require.NoError(t, env.h.OnCallback(c))

	require.False(t, env.store.reminders[1])
	require.Equal(t, env.en(i18n.KeyReminderNoCity), c.lastText(t))
}

func TestBirthDateFlow(t *testing.T) {
	env := newTestEnv(t)
	env.api.hijri = func(d time.Time) (*aladhan.DualDate, error) {
		return &aladhan.DualDate{
			Hijri: aladhan.CalendarDate{
				Day: "25", Month: aladhan.Month{Number: 8, En: "Sha'ban"}, Year: "1410",
			},
			Gregorian: aladhan.CalendarDate{
				Day: "15", Month: aladhan.Month{Number: 3, En: "March"}, Year: "1990",
				Weekday: aladhan.Weekday{En: "Thursday"},
			},
		}, nil
	}

	c := newFakeContext(1, env.en(i18n.KeyBtnAgeCalculator))
	require.NoError(t, env.h.OnText(c))
	require.Equal(t, session.PendingBirthDate, env.pending(t, 1))

	c = newFakeContext(1, "15/03/1990")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Contains(t, c.lastText(t), "Sha'ban")
	require.Contains(t, c.lastText(t), "15/03/1990")
	require.Contains(t, c.lastText(t), env.en(i18n.KeyYears))
}

func TestBirthDateErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		key   string
	}{
		{"bad format", "yesterday", i18n.KeyInvalidDateFormat},
		{"future", "01/01/2030", i18n.KeyDateInFuture},
		{"impossible", "31/04/2000", i18n.KeyInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingBirthDate))

			c := newFakeContext(1, tc.input)
			require.NoError(t, env.h.OnText(c))

			require.Equal(t, env.en(tc.key), c.lastText(t))
			require.Equal(t, session.PendingNone, env.pending(t, 1), "errors still end the waiting state")
		})
	}
}

func TestHijriConversionFlow(t *testing.T) {
	env := newTestEnv(t)
	env.api.hijri = func(d time.Time) (*aladhan.DualDate, error) {
		return &aladhan.DualDate{
			Hijri: aladhan.CalendarDate{
				Day: "27", Month: aladhan.Month{Number: 7, En: "Rajab"}, Year: "1446",
			},
			Gregorian: aladhan.CalendarDate{
				Day: "27", Month: aladhan.Month{Number: 1, En: "January"}, Year: "2025",
				Weekday: aladhan.Weekday{En: "Monday"},
			},
		}, nil
	}

	c := newFakeContext(1, env.en(i18n.KeyBtnToHijri))
	require.NoError(t, env.h.OnText(c))
	require.Equal(t, session.PendingHijriDate, env.pending(t, 1))

	c = newFakeContext(1, "27/01/2025")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Contains(t, c.lastText(t), "Rajab")
	require.Contains(t, c.lastText(t), "January")
}

func TestHijriConversionAcceptsFutureDate(t *testing.T) {
	env := newTestEnv(t)
	var got time.Time
	env.api.hijri = func(d time.Time) (*aladhan.DualDate, error) {
		got = d
		return &aladhan.DualDate{}, nil
	}
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingHijriDate))

	c := newFakeContext(1, "01/01/2030")
	require.NoError(t, env.h.OnText(c))
	require.Equal(t, 2030, got.Year())
}

func TestFeedbackFlow(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, env.en(i18n.KeyBtnFeedback))
	require.NoError(t, env.h.OnText(c))
	require.Equal(t, session.PendingFeedback, env.pending(t, 1))

	c = newFakeContext(1, "great bot, more languages please")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Contains(t, c.lastText(t), env.en(i18n.KeyFeedbackSent))
	require.Len(t, env.msgr.sent, 1)
	require.Contains(t, env.msgr.sent[0], "great bot")
	require.Equal(t, int64(777), env.msgr.to[0].(*tele.User).ID)
}

func TestFeedbackDisabledWithoutRecipient(t *testing.T) {
	env := newTestEnv(t)
	env.h.feedbackTo = 0

	c := newFakeContext(1, env.en(i18n.KeyBtnFeedback))
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeyFeedbackDisabled), c.lastText(t))
	require.Equal(t, session.PendingNone, env.pending(t, 1))
}

func TestFeedbackForwardFailure(t *testing.T) {
	env := newTestEnv(t)
	env.msgr.err = errors.New("telegram: 502")
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingFeedback))

	c := newFakeContext(1, "hello")
	require.NoError(t, env.h.OnText(c))

	require.Contains(t, c.lastText(t), env.en(i18n.KeyFeedbackError))
}

func TestLocationShare(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingLocation))

	c := newFakeContext(1, "")
	c.msg = &tele.Message{Location: &tele.Location{Lat: 9.03, Lng: 38.74}}
	require.NoError(t, env.h.OnLocation(c))

	require.Equal(t, session.PendingNone, env.pending(t, 1))
	require.Contains(t, c.lastText(t), env.en(i18n.KeyNearbyMasjidsFound))

	markup := c.sent[0].markup
	require.NotNil(t, markup)
	require.NotEmpty(t, markup.InlineKeyboard)
	require.Contains(t, markup.InlineKeyboard[0][0].URL, "google.com/maps/search/masjid")
}

func TestLocationShareInvalidCoordinates(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, "")
	c.msg = &tele.Message{Location: &tele.Location{Lat: 0, Lng: 0}}
	require.NoError(t, env.h.OnLocation(c))

	require.Equal(t, env.en(i18n.KeyInvalidLocation), c.lastText(t))
}

func TestTextWhileWaitingForLocation(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.h.sessions.SetPending(context.Background(), 1, session.PendingLocation))

	c := newFakeContext(1, "Addis Ababa")
	require.NoError(t, env.h.OnText(c))

	require.Equal(t, env.en(i18n.KeyPleaseShareLocation), c.lastText(t))
	require.Equal(t, session.PendingLocation, env.pending(t, 1))
}

func TestMyCityVariants(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, env.en(i18n.KeyBtnMyCity))
	require.NoError(t, env.h.OnText(c))
	require.Contains(t, c.lastText(t), env.en(i18n.KeyNoCitySpecified))

	env.store.cities[1] = "Istanbul"
	c = newFakeContext(1, env.en(i18n.KeyBtnMyCity))
	require.NoError(t, env.h.OnText(c))
	require.Contains(t, c.lastText(t), "Istanbul")
}

func TestMenuNavigation(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, env.en(i18n.KeyBtnOtherTools))
	require.NoError(t, env.h.OnText(c))
	menu, err := env.h.sessions.Menu(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, session.MenuOtherTools, menu)

	c = newFakeContext(1, env.en(i18n.KeyBtnPrayerTimes))
	require.NoError(t, env.h.OnText(c))
	menu, err = env.h.sessions.Menu(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, session.MenuPrayerTimes, menu)
}

func TestButtonsWorkAcrossLocales(t *testing.T) {
	env := newTestEnv(t)
	env.store.languages[1] = i18n.LangAmharic

	amharicHelp := env.h.tr.T(i18n.LangAmharic, i18n.KeyBtnHelp)
	c := newFakeContext(1, amharicHelp)
	require.NoError(t, env.h.OnText(c))

	require.Contains(t, c.lastText(t), env.h.tr.T(i18n.LangAmharic, i18n.KeyNoCitySaved))
}

func TestIslamicMonthsAndRamadan(t *testing.T) {
	env := newTestEnv(t)

	c := newFakeContext(1, env.en(i18n.KeyBtnIslamicMonths))
	require.NoError(t, env.h.OnText(c))
	require.Contains(t, c.lastText(t), "Muharram")
	require.Contains(t, c.lastText(t), "12. ")

	c = newFakeContext(1, env.en(i18n.KeyBtnRamadanCountdown))
	require.NoError(t, env.h.OnText(c))
	require.Contains(t, c.lastText(t), "Ramadan")
}

func TestStartShowsMainMenu(t *testing.T) {
	env := newTestEnv(t)
	env.store.cities[1] = "Cairo"

	c := newFakeContext(1, "/start")
	require.NoError(t, env.h.OnStart(c))

	require.Contains(t, c.lastText(t), "Cairo")
	require.NotNil(t, c.sent[0].markup)
}

func TestParseCallbackFallsBackToData(t *testing.T) {
	key, payload := parseCallback(&tele.Callback{Data: "\flang|ar"})
	require.Equal(t, cbLanguage, key)
	require.Equal(t, "ar", payload)
}
