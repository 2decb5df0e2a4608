package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Language представляет поддерживаемый язык
type Language string

const (
	LangRussian Language = "ru"
	LangEnglish Language = "en"
	DefaultLang Language = LangRussian
)

// Languages: поддерживаемые языки в порядке показа
var Languages = []Language{LangRussian, LangEnglish}

//go:embed locales/*.json
var localesFS embed.FS

// translations хранит все переводы
var translations = struct {
	sync.RWMutex
	data map[Language]map[string]string
}{data: make(map[Language]map[string]string)}

var loadOnce sync.Once

// Load загружает встроенные переводы. Повторные вызовы ничего не делают.
func Load() error {
	var err error
	loadOnce.Do(func() {
		err = load()
	})
	return err
}

func load() error {
	translations.Lock()
	defer translations.Unlock()

	for _, lang := range Languages {
		filePath := "locales/" + string(lang) + ".json"
		data, err := localesFS.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("ошибка чтения файла локализации %s: %w", filePath, err)
		}

		var langData map[string]string
		if err := json.Unmarshal(data, &langData); err != nil {
			return fmt.Errorf("ошибка парсинга файла локализации %s: %w", filePath, err)
		}

		translations.data[lang] = langData
		slog.Debug("загружена локализация", "lang", lang, "keys", len(langData))
	}

	return nil
}

// T возвращает перевод для указанного ключа и языка
func T(key string, lang Language) string {
	translations.RLock()
	defer translations.RUnlock()

	if langData, ok := translations.data[lang]; ok {
		if text, ok := langData[key]; ok {
			return text
		}
	}

	// Fallback на русский
	if lang != DefaultLang {
		if langData, ok := translations.data[DefaultLang]; ok {
			if text, ok := langData[key]; ok {
				return text
			}
		}
	}

	slog.Warn("перевод не найден", "key", key, "lang", lang)
	return key
}

// Tf возвращает форматированный перевод
func Tf(key string, lang Language, args ...any) string {
	template := T(key, lang)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// Keys возвращает ключи перевода языка
func Keys(lang Language) []string {
	translations.RLock()
	defer translations.RUnlock()

	keys := make([]string, 0, len(translations.data[lang]))
	for k := range translations.data[lang] {
		keys = append(keys, k)
	}
	return keys
}

// IsValidLanguage проверяет, является ли язык поддерживаемым
func IsValidLanguage(lang string) bool {
	switch Language(strings.ToLower(lang)) {
	case LangRussian, LangEnglish:
		return true
	default:
		return false
	}
}

// ParseLanguage преобразует строку (в том числе language_code Telegram, "en-US") в Language
func ParseLanguage(lang string) Language {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if base, _, ok := strings.Cut(lang, "-"); ok {
		lang = base
	}
	switch Language(lang) {
	case LangEnglish:
		return LangEnglish
	default:
		return LangRussian
	}
}

// GetLanguageName возвращает название языка на этом языке
func GetLanguageName(lang Language) string {
	switch lang {
	case LangEnglish:
		return "English"
	default:
		return "Русский"
	}
}

// GetLanguageFlag возвращает флаг для языка
func GetLanguageFlag(lang Language) string {
	switch lang {
	case LangEnglish:
		return "🇬🇧"
	default:
		return "🇷🇺"
	}
}
