package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/i18n/email.en.json": &fstest.MapFile{
			Data: []byte(`{"welcome":{"subject":"Welcome to {{.Site}}","greeting":"Hi {{.Name}}"}}`),
		},
		"templates/i18n/email.de.json": &fstest.MapFile{
			Data: []byte(`{"welcome":{"subject":"Willkommen bei {{.Site}}"}}`),
		},
	}
}

func TestRegistryLoadsAndTranslates(t *testing.T) {
	reg, err := NewTranslationRegistry(testFS(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"de", "en"}, reg.Languages())
	assert.True(t, reg.ContainsLanguage("en"))
	assert.False(t, reg.ContainsLanguage("fr"))

	tr, err := reg.TranslatorFor("en", "email")
	require.NoError(t, err)
	assert.Equal(t, "en", tr.Locale())
	assert.Equal(t, "Welcome to shoecreatify", tr.TD(map[string]string{"Site": "shoecreatify"}, "welcome", "subject"))
	assert.Equal(t, "Hi Jane", tr.TD(map[string]string{"Name": "Jane"}, "welcome.greeting"))
	assert.Equal(t, "missing (en): welcome.nope", tr.T("welcome", "nope"))
}

func TestRegistryErrors(t *testing.T) {
	reg, err := NewTranslationRegistry(testFS(), zaptest.NewLogger(t))
	require.NoError(t, err)
	_, err = reg.TranslatorFor("fr", "email")
	assert.ErrorIs(t, err, ErrLanguageDoesntExist)
	_, err = reg.TranslatorFor("en", "pages")
	assert.ErrorIs(t, err, ErrResourceDoesNotExist)
}

func TestRegistryMatch(t *testing.T) {
	reg, err := NewTranslationRegistry(testFS(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "de", reg.Match("de-AT,de;q=0.9,en;q=0.5", "en"))
	assert.Equal(t, "en", reg.Match("en-US", "en"))
	assert.Equal(t, "en", reg.Match("", "en"))
	assert.Equal(t, "en", reg.Match("ja", "en"))
}

func TestRegistryRejectsBrokenFile(t *testing.T) {
	fs := fstest.MapFS{
		"templates/i18n/email.en.json": &fstest.MapFile{Data: []byte(`{"broken":`)},
	}
	_, err := NewTranslationRegistry(fs, zaptest.NewLogger(t))
	assert.Error(t, err)
}
