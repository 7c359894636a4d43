package i18n

import (
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Supported lists the catalog languages; the first one is the fallback.
var Supported = []language.Tag{language.English, language.Russian, language.Uzbek, language.Spanish}

var matcher = language.NewMatcher(Supported)

// Store persists the chosen language between runs.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Translator struct {
	mu       sync.RWMutex
	lang     string
	catalogs map[string]map[string]string
}

// New loads the embedded catalog with English active.
func New() (*Translator, error) {
	return FromYAML(defaultCatalog)
}

func FromYAML(payload []byte) (*Translator, error) {
	catalogs := map[string]map[string]string{}
	if err := yaml.Unmarshal(payload, &catalogs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if _, ok := catalogs[Fallback()]; !ok {
		return nil, fmt.Errorf("catalog has no %q section", Fallback())
	}
	return &Translator{lang: Fallback(), catalogs: catalogs}, nil
}

func Fallback() string {
	base, _ := Supported[0].Base()
	return base.String()
}

// Match maps any BCP 47 tag to the closest supported language code.
func Match(tag string) string {
	parsed, err := language.Parse(tag)
	if err != nil {
		return Fallback()
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return Fallback()
	}
	base, _ := Supported[idx].Base()
	return base.String()
}

func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// SetLanguage switches to the closest supported language and returns it.
func (t *Translator) SetLanguage(tag string) string {
	lang := Match(tag)
	t.mu.Lock()
	t.lang = lang
	t.mu.Unlock()
	return lang
}

// Restore applies the language saved under key, if any.
func (t *Translator) Restore(store Store, key string) error {
	tag, ok, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("load language: %w", err)
	}
	if ok {
		t.SetLanguage(tag)
	}
	return nil
}

// Switch changes the language and saves it under key.
func (t *Translator) Switch(store Store, key, tag string) (string, error) {
	lang := t.SetLanguage(tag)
	if err := store.Set(key, lang); err != nil {
		return lang, fmt.Errorf("save language: %w", err)
	}
	return lang, nil
}

// T looks key up in the active language, then English, then returns the key.
// Args are applied with fmt.Sprintf.
func (t *Translator) T(key string, args ...any) string {
	t.mu.RLock()
	msg, ok := t.catalogs[t.lang][key]
	if !ok {
		msg, ok = t.catalogs[Fallback()][key]
	}
	t.mu.RUnlock()
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Persistent is a Translator whose language changes are saved to a store.
type Persistent struct {
	*Translator
	store Store
	key   string
}

func (t *Translator) Persist(store Store, key string) *Persistent {
	return &Persistent{Translator: t, store: store, key: key}
}

// Use switches to the closest supported language for tag and saves it.
func (p *Persistent) Use(tag string) (string, error) {
	return p.Switch(p.store, p.key, tag)
}
