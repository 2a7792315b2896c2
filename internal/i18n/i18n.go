// Package i18n translates UI labels. Phase cues ("BREAK!", "GO!") are shown
// as-is in every language.
package i18n

import (
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
	log "github.com/sirupsen/logrus"
)

// EnvLanguage overrides the detected language.
const EnvLanguage = "COACHTIMER_LANG"

const defaultLang = "en"

var supported = map[string]bool{
	"en": true,
	"pt": true,
	"es": true,
	"ru": true,
	"de": true,
}

var translations = map[string]map[string]string{
	"Work (seconds)": {
		"pt": "Trabalho (segundos)",
		"es": "Trabajo (segundos)",
		"ru": "Работа (секунды)",
		"de": "Arbeit (Sekunden)",
	},
	"Rest (seconds)": {
		"pt": "Descanso (segundos)",
		"es": "Descanso (segundos)",
		"ru": "Отдых (секунды)",
		"de": "Pause (Sekunden)",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
		"de": "Start",
	},
	"Pause": {
		"pt": "Pausar",
		"es": "Pausar",
		"ru": "Пауза",
		"de": "Pause",
	},
	"Resume": {
		"pt": "Continuar",
		"es": "Reanudar",
		"ru": "Продолжить",
		"de": "Weiter",
	},
	"paused": {
		"pt": "pausado",
		"es": "en pausa",
		"ru": "на паузе",
		"de": "pausiert",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
		"de": "Stopp",
	},
	"Round": {
		"pt": "Rodada",
		"es": "Ronda",
		"ru": "Раунд",
		"de": "Runde",
	},
	"Interval timer": {
		"pt": "Cronômetro de intervalos",
		"es": "Temporizador de intervalos",
		"ru": "Интервальный таймер",
		"de": "Intervall-Timer",
	},
	"Open timer": {
		"pt": "Abrir cronômetro",
		"es": "Abrir temporizador",
		"ru": "Открыть таймер",
		"de": "Timer öffnen",
	},
	"Preferences": {
		"pt": "Preferências",
		"es": "Preferencias",
		"ru": "Настройки",
		"de": "Einstellungen",
	},
	"Quit": {
		"pt": "Sair",
		"es": "Salir",
		"ru": "Выход",
		"de": "Beenden",
	},
	"Sound cues": {
		"pt": "Sinais sonoros",
		"es": "Señales sonoras",
		"ru": "Звуковые сигналы",
		"de": "Tonsignale",
	},
	"Language": {
		"pt": "Idioma",
		"es": "Idioma",
		"ru": "Язык",
		"de": "Sprache",
	},
	"System": {
		"pt": "Sistema",
		"es": "Sistema",
		"ru": "Системный",
		"de": "System",
	},
	"Save": {
		"pt": "Salvar",
		"es": "Guardar",
		"ru": "Сохранить",
		"de": "Speichern",
	},
	"Cancel": {
		"pt": "Cancelar",
		"es": "Cancelar",
		"ru": "Отмена",
		"de": "Abbrechen",
	},
	"Settings saved": {
		"pt": "Configurações salvas",
		"es": "Configuración guardada",
		"ru": "Настройки сохранены",
		"de": "Einstellungen gespeichert",
	},
}

var (
	mu   sync.RWMutex
	lang = defaultLang
)

// Setup selects the UI language. Precedence: COACHTIMER_LANG, then the
// preferred language from settings, then the system locale.
func Setup(preferred string) string {
	selected := resolve(os.Getenv(EnvLanguage), preferred, systemLocales)
	SetLang(selected)
	log.WithField("lang", selected).Debug("ui language selected")
	return selected
}

// SetLang switches the active language. Unsupported values select English.
func SetLang(code string) {
	code = normalize(code)
	if !supported[code] {
		code = defaultLang
	}
	mu.Lock()
	lang = code
	mu.Unlock()
}

// GetLang returns the active language code.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}

// T translates key into the active language, falling back to the key.
func T(key string) string {
	mu.RLock()
	current := lang
	mu.RUnlock()
	if translated, ok := translations[key][current]; ok {
		return translated
	}
	return key
}

// Supported lists the selectable language codes.
func Supported() []string {
	return []string{"en", "pt", "es", "ru", "de"}
}

func resolve(forced, preferred string, detect func() ([]string, error)) string {
	if code := normalize(forced); supported[code] {
		return code
	}
	if code := normalize(preferred); supported[code] {
		return code
	}

	userLocales, err := detect()
	if err != nil {
		log.WithError(err).Debug("could not get user locale, defaulting to english")
		return defaultLang
	}
	for _, userLocale := range userLocales {
		if code := normalize(userLocale); supported[code] {
			return code
		}
	}
	return defaultLang
}

// normalize reduces "pt_BR.UTF-8" or "es-419" to the two letter prefix.
func normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) < 2 {
		return ""
	}
	if len(value) > 2 && value[2] != '-' && value[2] != '_' && value[2] != '.' {
		return ""
	}
	return value[:2]
}

func systemLocales() ([]string, error) {
	return locale.GetLocales()
}
