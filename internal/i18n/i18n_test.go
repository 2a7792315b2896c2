package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func locales(values ...string) func() ([]string, error) {
	return func() ([]string, error) {
		return values, nil
	}
}

func TestResolve(t *testing.T) {
	failing := func() ([]string, error) {
		return nil, errors.New("no locale")
	}

	tests := []struct {
		name      string
		forced    string
		preferred string
		detect    func() ([]string, error)
		want      string
	}{
		{name: "env wins", forced: "ru", preferred: "pt", detect: locales("es-ES"), want: "ru"},
		{name: "unsupported env ignored", forced: "fr", preferred: "pt", detect: locales("es-ES"), want: "pt"},
		{name: "preferred", preferred: "de", detect: locales("es-ES"), want: "de"},
		{name: "system locale", detect: locales("pt_BR.UTF-8"), want: "pt"},
		{name: "first supported system locale", detect: locales("fr-FR", "es-419"), want: "es"},
		{name: "nothing supported", detect: locales("ja-JP"), want: "en"},
		{name: "detection fails", detect: failing, want: "en"},
		{name: "no locales", detect: locales(), want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(tt.forced, tt.preferred, tt.detect))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "pt", normalize("pt_BR.UTF-8"))
	assert.Equal(t, "es", normalize(" ES-419 "))
	assert.Equal(t, "de", normalize("de"))
	assert.Equal(t, "", normalize("german"))
	assert.Equal(t, "", normalize("d"))
}

func TestT(t *testing.T) {
	t.Cleanup(func() { SetLang("en") })

	SetLang("de")
	assert.Equal(t, "de", GetLang())
	assert.Equal(t, "Einstellungen", T("Preferences"))
	assert.Equal(t, "BREAK!", T("BREAK!"))

	SetLang("xx")
	assert.Equal(t, "en", GetLang())
	assert.Equal(t, "Preferences", T("Preferences"))
}

func TestTranslationsCoverSupportedLanguages(t *testing.T) {
	for key, byLang := range translations {
		for _, code := range Supported() {
			if code == "en" {
				continue
			}
			assert.NotEmpty(t, byLang[code], "%q missing %s", key, code)
		}
	}
}
