package i18n

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/jeremywohl/flatten/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type translation map[string]*template.Template
type resource map[string]translation
type localeDictionary map[string]resource

var ErrLanguageDoesntExist = errors.New("language does not exist")
var ErrResourceDoesNotExist = errors.New("resource does not exist")

// TranslationRegistry holds every loaded translation file, keyed by locale and resource.
// Files are named <resource>.<locale>.json and are flattened to dot separated keys.
type TranslationRegistry struct {
	dir      fs.FS
	registry localeDictionary
	log      *zap.Logger
	matcher  language.Matcher
	tags     []string
}

func (t *TranslationRegistry) buildMatcher() {
	tags := make([]language.Tag, 0)
	t.tags = make([]string, 0)
	for _, k := range t.Languages() {
		lang, err := language.Parse(k)
		if err != nil {
			t.log.Error("unable to parse language", zap.String("language", k))
			continue
		}
		tags = append(tags, lang)
		t.tags = append(t.tags, k)
	}
	t.matcher = language.NewMatcher(tags)
}

// Languages returns the loaded locales in stable order
func (t *TranslationRegistry) Languages() []string {
	l := make([]string, 0, len(t.registry))
	for k := range t.registry {
		l = append(l, k)
	}
	sort.Strings(l)
	return l
}

func (t *TranslationRegistry) ContainsLanguage(language string) bool {
	_, ok := t.registry[language]
	return ok
}

// Match picks the best loaded locale for an Accept-Language header
func (t *TranslationRegistry) Match(acceptLanguage string, fallback string) string {
	if acceptLanguage == "" || len(t.tags) == 0 {
		return fallback
	}
	preferred, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(preferred) == 0 {
		return fallback
	}
	_, index, confidence := t.matcher.Match(preferred...)
	if confidence == language.No {
		return fallback
	}
	return t.tags[index]
}

func NewTranslationRegistry(dir fs.FS, log *zap.Logger) (*TranslationRegistry, error) {
	reg := TranslationRegistry{
		dir:      dir,
		log:      log,
		registry: make(localeDictionary),
	}
	err := reg.autoLoad()
	if err != nil {
		return nil, err
	}
	reg.buildMatcher()
	return &reg, nil
}

func (t *TranslationRegistry) TranslatorFor(
	language string,
	res string,
) (*Translator, error) {
	if _, ok := t.registry[language]; !ok {
		return nil, ErrLanguageDoesntExist
	}
	if _, ok := t.registry[language][res]; !ok {
		return nil, ErrResourceDoesNotExist
	}
	return &Translator{
		t:        t.registry[language][res],
		locale:   language,
		resource: res,
	}, nil
}

func (t *TranslationRegistry) autoLoad() error {
	matches, err := fs.Glob(t.dir, "templates/i18n/*.*.json")
	if err != nil {
		t.log.Error("could not load i18n files", zap.Error(err))
		return err
	}
	t.log.Debug("loaded i18n files", zap.Strings("files", matches))
	return t.process(matches)
}

var localeRegex = regexp.MustCompile(`\.([a-zA-Z]{2})\.json$`)

func (t *TranslationRegistry) process(files []string) error {
	for _, v := range files {
		m := localeRegex.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		locale := m[1]
		name := strings.TrimSuffix(path.Base(v), m[0])
		if t.registry[locale] == nil {
			t.registry[locale] = make(resource)
		}
		content, err := fs.ReadFile(t.dir, v)
		if err != nil {
			t.log.Error("could not read translation file", zap.Error(err), zap.String("file", v))
			return err
		}
		final, err := parseTranslation(content)
		if err != nil {
			t.log.Error("unparseable translation file", zap.Error(err), zap.String("file", v))
			return err
		}
		t.registry[locale][name] = final
		t.log.Debug("added translations", zap.String("resource", name), zap.String("lang", locale))
	}
	return nil
}

func parseTranslation(content []byte) (translation, error) {
	flat, err := flatten.FlattenString(string(content), "", flatten.DotStyle)
	if err != nil {
		return nil, err
	}
	tr := make(map[string]string)
	if err = json.Unmarshal([]byte(flat), &tr); err != nil {
		return nil, err
	}
	final := make(translation)
	for k, v := range tr {
		parsed, err := template.New(k).Option("missingkey=zero").Parse(v)
		if err != nil {
			return nil, err
		}
		final[k] = parsed
	}
	return final, nil
}
