package i18n

import (
	"fmt"
	"strings"
)

// Translator resolves keys of a single resource in a single locale
type Translator struct {
	t        translation
	locale   string
	resource string
}

// Locale returns the locale of the translator
func (t *Translator) Locale() string {
	return t.locale
}

// T retrives the translation for the supplied key
func (t *Translator) T(key ...string) string {
	return t.TD(nil, key...)
}

// TD retrives the translation for the supplied key rendered with data
func (t *Translator) TD(data map[string]string, key ...string) string {
	k := strings.Join(key, ".")
	res := t.t[k]
	if res == nil {
		return fmt.Sprintf("missing (%s): %s", t.locale, k)
	}
	buffer := new(strings.Builder)
	if err := res.Execute(buffer, data); err != nil {
		return fmt.Sprintf("error (%s): %s", t.locale, k)
	}
	return buffer.String()
}
