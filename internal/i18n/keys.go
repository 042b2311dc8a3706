package i18n

// Message keys form a closed set: every locale file must define each of them.
// A lookup that misses both the locale and the English fallback returns the
// raw key, which the completeness test treats as a defect.
const (
	KeyWelcome            = "welcome"
	KeyHelp               = "help"
	KeyNoCitySaved        = "no_city_saved"
	KeyCitySaved          = "city_saved"
	KeyYourDefaultCity    = "your_default_city"
	KeyCurrentPrayerTimes = "current_prayer_times"
	KeyYourSavedCity      = "your_saved_city"
	KeyNoCitySpecified    = "no_city_specified"
	KeyUseBelowToSave     = "use_below_to_save"
	KeyCurrentCity        = "current_city"
	KeyTapGetTimes        = "tap_get_times"
	KeyTapChangeCity      = "tap_change_city"
	KeySetCity            = "set_city"
	KeySendCityName       = "send_city_name"
	KeySendJustCityName   = "send_just_city_name"
	KeySendCityForTimes   = "send_city_for_times"
	KeySendJustCity       = "send_just_city"
	KeyUnableToFind       = "unable_to_find"
	KeySendValidCity      = "send_valid_city"
	KeyServiceUnavailable = "service_unavailable"
	KeyGenericError       = "generic_error"
	KeyPrayerTimesFor     = "prayer_times_for"

	KeyFajr    = "fajr"
	KeyDhuhr   = "dhuhr"
	KeyAsr     = "asr"
	KeyMaghrib = "maghrib"
	KeyIsha    = "isha"

	KeyBtnGetTimes         = "btn_get_times"
	KeyBtnMyCity           = "btn_my_city"
	KeyBtnSetCity          = "btn_set_city"
	KeyBtnChangeCity       = "btn_change_city"
	KeyBtnHelp             = "btn_help"
	KeyBtnLanguage         = "btn_language"
	KeyBtnPrayerTimes      = "btn_prayer_times"
	KeyBtnOtherTools       = "btn_other_tools"
	KeyBtnToHijri          = "btn_to_hijri"
	KeyBtnBackToMain       = "btn_back_to_main"
	KeyBtnBackToTools      = "btn_back_to_tools"
	KeyBtnBackToPrayer     = "btn_back_to_prayer_times"
	KeyBtnFeedback         = "btn_feedback"
	KeyBtnReminder         = "btn_reminder"
	KeyBtnIslamicMonths    = "btn_islamic_months"
	KeyBtnAgeCalculator    = "btn_age_calculator"
	KeyBtnNearbyMasjids    = "btn_nearby_masjids"
	KeyBtnRamadanCountdown = "btn_ramadan_countdown"
	KeyBtnEnableReminder   = "btn_enable_reminder"
	KeyBtnDisableReminder  = "btn_disable_reminder"

	KeySelectLanguage  = "select_language"
	KeyLanguageChanged = "language_changed"

	KeyPrayerTimesMenu     = "prayer_times_menu"
	KeyOtherToolsMenu      = "other_tools_menu"
	KeySelectDateToConvert = "select_date_to_convert"
	KeyDateConverted       = "date_converted"
	KeyConversionError     = "conversion_error"

	KeyIslamicMonthsTitle = "islamic_months_title"

	KeyAgeCalculatorPrompt  = "age_calculator_prompt"
	KeyAgeCalculationResult = "age_calculation_result"
	KeyYears                = "years"
	KeyMonths               = "months"
	KeyDays                 = "days"
	KeyInvalidDateFormat    = "invalid_date_format"
	KeyDateInFuture         = "date_in_future"
	KeyInvalidDate          = "invalid_date"
	KeyBirthdayToday        = "birthday_today"
	KeyDaysUntilBirthday    = "days_until_birthday"

	KeyFeedbackPrompt   = "feedback_prompt"
	KeyFeedbackSent     = "feedback_sent"
	KeyFeedbackError    = "feedback_error"
	KeyFeedbackDisabled = "feedback_disabled"

	KeyReminderMenu     = "reminder_menu"
	KeyReminderEnabled  = "reminder_enabled"
	KeyReminderDisabled = "reminder_disabled"
	KeyReminderError    = "reminder_error"
	KeyReminderNoCity   = "reminder_no_city"
	KeyDailyReminder    = "daily_reminder"
	KeyStatusEnabled    = "status_enabled"
	KeyStatusDisabled   = "status_disabled"

	KeyNearbyMasjidsPrompt = "nearby_masjids_prompt"
	KeyNearbyMasjidsFound  = "nearby_masjids_found"
	KeyViewNearbyMasjids   = "view_nearby_masjids"
	KeyInvalidLocation     = "invalid_location"
	KeyPleaseShareLocation = "please_share_location"

	KeyRamadanCountdown = "ramadan_countdown"
	KeyRamadanToday     = "ramadan_today"
	KeyRamadanStarted   = "ramadan_started"
)

// MessageKeys lists every key of the closed set, used by the completeness test
// and by tooling that verifies locale files.
func MessageKeys() []string {
	return []string{
		KeyWelcome, KeyHelp, KeyNoCitySaved, KeyCitySaved, KeyYourDefaultCity,
		KeyCurrentPrayerTimes, KeyYourSavedCity, KeyNoCitySpecified,
		KeyUseBelowToSave, KeyCurrentCity, KeyTapGetTimes, KeyTapChangeCity,
		KeySetCity, KeySendCityName, KeySendJustCityName, KeySendCityForTimes,
		KeySendJustCity, KeyUnableToFind, KeySendValidCity,
		KeyServiceUnavailable, KeyGenericError, KeyPrayerTimesFor,
		KeyFajr, KeyDhuhr, KeyAsr, KeyMaghrib, KeyIsha,
		KeyBtnGetTimes, KeyBtnMyCity, KeyBtnSetCity, KeyBtnChangeCity,
		KeyBtnHelp, KeyBtnLanguage, KeyBtnPrayerTimes, KeyBtnOtherTools,
		KeyBtnToHijri, KeyBtnBackToMain, KeyBtnBackToTools, KeyBtnBackToPrayer,
		KeyBtnFeedback, KeyBtnReminder, KeyBtnIslamicMonths,
		KeyBtnAgeCalculator, KeyBtnNearbyMasjids, KeyBtnRamadanCountdown,
		KeyBtnEnableReminder, KeyBtnDisableReminder,
		KeySelectLanguage, KeyLanguageChanged,
		KeyPrayerTimesMenu, KeyOtherToolsMenu, KeySelectDateToConvert,
		KeyDateConverted, KeyConversionError, KeyIslamicMonthsTitle,
		KeyAgeCalculatorPrompt, KeyAgeCalculationResult,
		KeyYears, KeyMonths, KeyDays,
		KeyInvalidDateFormat, KeyDateInFuture, KeyInvalidDate,
		KeyBirthdayToday, KeyDaysUntilBirthday,
		KeyFeedbackPrompt, KeyFeedbackSent, KeyFeedbackError, KeyFeedbackDisabled,
		KeyReminderMenu, KeyReminderEnabled, KeyReminderDisabled,
		KeyReminderError, KeyReminderNoCity, KeyDailyReminder,
		KeyStatusEnabled, KeyStatusDisabled,
		KeyNearbyMasjidsPrompt, KeyNearbyMasjidsFound, KeyViewNearbyMasjids,
		KeyInvalidLocation, KeyPleaseShareLocation,
		KeyRamadanCountdown, KeyRamadanToday, KeyRamadanStarted,
	}
}
