// Package i18n loads the per-language message tables used for every outgoing
// reply and keyboard label. Lookups fall back to English; a key missing from
// both tables is returned verbatim as a last-resort sentinel.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Language identifies a supported locale.
type Language string

const (
	LangEnglish Language = "en"
	LangAmharic Language = "am"
	LangArabic  Language = "ar"
)

// Languages returns all supported locales in display order.
func Languages() []Language {
	return []Language{LangEnglish, LangAmharic, LangArabic}
}

// LanguageInfo carries presentation metadata for the language picker.
type LanguageInfo struct {
	Code       Language
	NativeName string
	Flag       string
}

var languageInfos = map[Language]LanguageInfo{
	LangEnglish: {Code: LangEnglish, NativeName: "English", Flag: "🇺🇸"},
	LangAmharic: {Code: LangAmharic, NativeName: "አማርኛ", Flag: "🇪🇹"},
	LangArabic:  {Code: LangArabic, NativeName: "العربية", Flag: "🇸🇦"},
}

// Info returns presentation metadata for lang, defaulting to English.
func Info(lang Language) LanguageInfo {
	if info, ok := languageInfos[lang]; ok {
		return info
	}
	return languageInfos[LangEnglish]
}

// Parse validates a language code coming from a callback payload.
func Parse(code string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	_, ok := languageInfos[lang]
	return lang, ok
}

type localeFile struct {
	Messages     map[string]string `yaml:"messages"`
	QuickPhrases []string          `yaml:"quick_phrases"`
	Months       []string          `yaml:"months"`
}

// Table holds the loaded translations for all supported languages.
type Table struct {
	messages map[Language]map[string]string
	quick    map[Language][]string
	months   map[Language][]string
}

// Load reads one YAML locale file per supported language from dir.
func Load(dir string) (*Table, error) {
	t := &Table{
		messages: make(map[Language]map[string]string),
		quick:    make(map[Language][]string),
		months:   make(map[Language][]string),
	}
	for _, lang := range Languages() {
		path := filepath.Join(dir, string(lang)+".yaml")
		if err := t.loadLocale(lang, path); err != nil {
			return nil, fmt.Errorf("load %s locale: %w", lang, err)
		}
	}
	return t, nil
}

func (t *Table) loadLocale(lang Language, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	var lf localeFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	if len(lf.Months) != 12 {
		return fmt.Errorf("locale %s lists %d months, want 12", lang, len(lf.Months))
	}
	t.messages[lang] = lf.Messages
	t.quick[lang] = lf.QuickPhrases
	t.months[lang] = lf.Months
	return nil
}

// T retrieves a translated message with optional fmt args.
func (t *Table) T(lang Language, key string, args ...any) string {
	msgs, ok := t.messages[lang]
	if !ok {
		msgs = t.messages[LangEnglish]
	}
	msg, ok := msgs[key]
	if !ok {
		msg, ok = t.messages[LangEnglish][key]
		if !ok {
			return key
		}
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg
}

// IsButton reports whether text equals the key's label in any supported
// language. Users may press buttons rendered before a language switch, so
// matching is deliberately cross-locale.
func (t *Table) IsButton(text, key string) bool {
	for _, lang := range Languages() {
		if label, ok := t.messages[lang][key]; ok && label == text {
			return true
		}
	}
	return false
}

// ButtonPrefix matches text against the key's label in any language treated as
// a prefix, returning the trimmed remainder. Used for the "Get Times for X"
// shortcut whose label embeds the saved city.
func (t *Table) ButtonPrefix(text, key string) (string, bool) {
	for _, lang := range Languages() {
		label, ok := t.messages[lang][key]
		if !ok || label == "" {
			continue
		}
		if strings.HasPrefix(text, label+" ") {
			return strings.TrimSpace(strings.TrimPrefix(text, label)), true
		}
	}
	return "", false
}

// IsQuickPhrase reports whether text is one of the free-form phrases that mean
// "show me my saved city's times" in any language.
func (t *Table) IsQuickPhrase(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, lang := range Languages() {
		for _, phrase := range t.quick[lang] {
			if strings.ToLower(phrase) == lowered {
				return true
			}
		}
	}
	return false
}

// MonthNames returns the 12 Hijri month names for lang.
func (t *Table) MonthNames(lang Language) []string {
	if months, ok := t.months[lang]; ok && len(months) == 12 {
		return months
	}
	return t.months[LangEnglish]
}

// MissingKeys reports message keys absent from the given language table.
// Useful for asserting locale completeness in tests.
func (t *Table) MissingKeys(lang Language) []string {
	var missing []string
	for _, key := range MessageKeys() {
		if _, ok := t.messages[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
