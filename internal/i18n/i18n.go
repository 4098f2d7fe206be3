// Package i18n translates the user-facing strings.
package i18n

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,
	language.Portuguese,
	language.Spanish,
	language.Russian,
}

var matcher = language.NewMatcher(supported)

var (
	mu   sync.RWMutex
	lang = "en"
)

var translations = map[string]map[string]string{
	"Focusing": {
		"pt": "Focando",
		"es": "Enfocado",
		"ru": "Фокус",
	},
	"On Break": {
		"pt": "Em pausa",
		"es": "En descanso",
		"ru": "Перерыв",
	},
	"PAUSED": {
		"pt": "PAUSADO",
		"es": "EN PAUSA",
		"ru": "ПАУЗА",
	},
	"Idle": {
		"pt": "Parado",
		"es": "Inactivo",
		"ru": "Ожидание",
	},
	"Focus Duration: %s": {
		"pt": "Duração do foco: %s",
		"es": "Duración del enfoque: %s",
		"ru": "Длительность фокуса: %s",
	},
	"Break Duration: %s": {
		"pt": "Duração da pausa: %s",
		"es": "Duración del descanso: %s",
		"ru": "Длительность перерыва: %s",
	},
	"%s for %s minutes": {
		"pt": "%s por %s minutos",
		"es": "%s durante %s minutos",
		"ru": "%s: %s минут",
	},
	"%s remaining": {
		"pt": "%s restantes",
		"es": "%s restantes",
		"ru": "осталось %s",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Pause": {
		"pt": "Pausar",
		"es": "Pausar",
		"ru": "Пауза",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
	},
	"Show timer": {
		"pt": "Mostrar timer",
		"es": "Mostrar temporizador",
		"ru": "Показать таймер",
	},
	"Quit": {
		"pt": "Sair",
		"es": "Salir",
		"ru": "Выход",
	},
}

// Setup selects the language. An explicit override wins, then the
// POMODORO_LANG environment variable, then the system locale.
func Setup(override string) string {
	requested := strings.TrimSpace(override)
	if requested == "" {
		if forced := strings.TrimSpace(os.Getenv("POMODORO_LANG")); forced != "" {
			log.Printf("POMODORO_LANG is set to: '%s'", forced)
			requested = forced
		}
	}

	candidates := []string{requested}
	if requested == "" {
		userLocales, err := locale.GetLocales()
		if err != nil {
			log.Printf("could not get user locale, defaulting to english: %v", err)
		}
		candidates = userLocales
	}

	selected := Match(candidates...)
	mu.Lock()
	lang = selected
	mu.Unlock()
	log.Printf("language set to: %s", selected)
	return selected
}

// Match returns the supported base language closest to the given locales,
// or "en" when none is close.
func Match(locales ...string) string {
	normalized := make([]string, 0, len(locales))
	for _, value := range locales {
		if value = strings.TrimSpace(value); value != "" {
			normalized = append(normalized, strings.ReplaceAll(value, "_", "-"))
		}
	}
	if len(normalized) == 0 {
		return "en"
	}

	tag, _ := language.MatchStrings(matcher, normalized...)
	base, _ := tag.Base()
	return base.String()
}

// T translates key into the current language, returning key itself when no
// translation exists.
func T(key string) string {
	mu.RLock()
	current := lang
	mu.RUnlock()
	if translated, ok := translations[key][current]; ok {
		return translated
	}
	return key
}

// Lang returns the current language.
func Lang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
