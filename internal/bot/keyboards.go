package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/hshehabu/salah-times/internal/i18n"
	"github.com/hshehabu/salah-times/internal/session"
)

// InlineBtn is a convenience wrapper for inline button properties.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
	URL    string
}

// ReplyButtons builds a reply keyboard from rows of text.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	var keyboard []tele.Row
	for _, row := range rows {
		var buttons []tele.Btn
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			if btn.URL != "" {
				r[j] = *markup.URL(btn.Text, btn.URL).Inline()
				continue
			}
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// MainMenu renders the top-level reply keyboard. The get-times shortcut row
// appears only when the user has a saved city, with the city embedded in
// the label.
func (h *Handlers) MainMenu(lang i18n.Language, savedCity string) *tele.ReplyMarkup {
	var rows [][]string
	if savedCity != "" {
		rows = append(rows, []string{h.tr.T(lang, i18n.KeyBtnGetTimes) + " " + savedCity})
		rows = append(rows, []string{h.tr.T(lang, i18n.KeyBtnMyCity), h.tr.T(lang, i18n.KeyBtnChangeCity)})
	} else {
		rows = append(rows, []string{h.tr.T(lang, i18n.KeyBtnSetCity)})
	}
	rows = append(rows,
		[]string{h.tr.T(lang, i18n.KeyBtnPrayerTimes), h.tr.T(lang, i18n.KeyBtnOtherTools)},
		[]string{h.tr.T(lang, i18n.KeyBtnHelp), h.tr.T(lang, i18n.KeyBtnLanguage)},
	)
	return ReplyButtons(rows...)
}

// PrayerTimesMenu renders the prayer-times submenu keyboard.
func (h *Handlers) PrayerTimesMenu(lang i18n.Language, savedCity string) *tele.ReplyMarkup {
	var rows [][]string
	if savedCity != "" {
		rows = append(rows, []string{h.tr.T(lang, i18n.KeyBtnGetTimes) + " " + savedCity})
		rows = append(rows, []string{h.tr.T(lang, i18n.KeyBtnMyCity), h.tr.T(lang, i18n.KeyBtnChangeCity)})
	} else {
		rows = append(rows, []string{h.tr.T(lang, i18n.KeyBtnSetCity)})
	}
	rows = append(rows,
		[]string{h.tr.T(lang, i18n.KeyBtnReminder)},
		[]string{h.tr.T(lang, i18n.KeyBtnBackToMain)},
	)
	return ReplyButtons(rows...)
}

// OtherToolsMenu renders the tools submenu keyboard.
func (h *Handlers) OtherToolsMenu(lang i18n.Language) *tele.ReplyMarkup {
	return ReplyButtons(
		[]string{h.tr.T(lang, i18n.KeyBtnToHijri), h.tr.T(lang, i18n.KeyBtnAgeCalculator)},
		[]string{h.tr.T(lang, i18n.KeyBtnIslamicMonths), h.tr.T(lang, i18n.KeyBtnRamadanCountdown)},
		[]string{h.tr.T(lang, i18n.KeyBtnNearbyMasjids), h.tr.T(lang, i18n.KeyBtnFeedback)},
		[]string{h.tr.T(lang, i18n.KeyBtnBackToMain)},
	)
}

// MenuKeyboard resolves the keyboard for a tracked menu position.
func (h *Handlers) MenuKeyboard(menu session.Menu, lang i18n.Language, savedCity string) *tele.ReplyMarkup {
	switch menu {
	case session.MenuPrayerTimes:
		return h.PrayerTimesMenu(lang, savedCity)
	case session.MenuOtherTools:
		return h.OtherToolsMenu(lang)
	default:
		return h.MainMenu(lang, savedCity)
	}
}

// LanguagePicker renders one inline button per supported language.
func LanguagePicker() *tele.ReplyMarkup {
	var rows [][]InlineBtn
	for _, lang := range i18n.Languages() {
		info := i18n.Info(lang)
		rows = append(rows, []InlineBtn{{
			Text:   info.Flag + " " + info.NativeName,
			Unique: cbLanguage,
			Data:   string(lang),
		}})
	}
	return InlineButtonsRows(rows...)
}

// ReminderKeyboard renders the enable/disable toggle for the current state.
func (h *Handlers) ReminderKeyboard(lang i18n.Language, enabled bool) *tele.ReplyMarkup {
	key := i18n.KeyBtnEnableReminder
	data := "on"
	if enabled {
		key = i18n.KeyBtnDisableReminder
		data = "off"
	}
	return InlineButtonsRows([]InlineBtn{{
		Text:   h.tr.T(lang, key),
		Unique: cbReminder,
		Data:   data,
	}})
}

// MasjidLinkKeyboard renders a single URL button opening the map search.
func (h *Handlers) MasjidLinkKeyboard(lang i18n.Language, url string) *tele.ReplyMarkup {
	return InlineButtonsRows([]InlineBtn{{
		Text: h.tr.T(lang, i18n.KeyViewNearbyMasjids),
		URL:  url,
	}})
}
