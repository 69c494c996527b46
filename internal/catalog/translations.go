package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Translations holds named bundles of translated strings for one language.
// It implements reporttext.Translator.
type Translations struct {
	tag language.Tag

	mu      sync.RWMutex
	bundles map[string]*bundle
}

type bundle struct {
	builder *xcatalog.Builder
	keys    map[string]struct{}
}

// NewTranslations creates an empty set of bundles for tag.
func NewTranslations(tag language.Tag) *Translations {
	return &Translations{tag: tag, bundles: make(map[string]*bundle)}
}

// Language returns the language the bundles are written in.
func (t *Translations) Language() language.Tag { return t.tag }

// Set defines key in the named bundle.
func (t *Translations) Set(name, key, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.bundles[name]
	if !ok {
		b = &bundle{
			builder: xcatalog.NewBuilder(xcatalog.Fallback(t.tag)),
			keys:    make(map[string]struct{}),
		}
		t.bundles[name] = b
	}
	// The printer formats the stored text, so a literal % must be escaped.
	if err := b.builder.SetString(t.tag, key, strings.ReplaceAll(text, "%", "%%")); err != nil {
		return fmt.Errorf("set %s/%s: %w", name, key, err)
	}
	b.keys[key] = struct{}{}
	return nil
}

// Translate looks key up in the named bundle. Unknown bundles or keys return
// key unchanged.
func (t *Translations) Translate(name, key string) string {
	t.mu.RLock()
	b, ok := t.bundles[name]
	if ok {
		_, ok = b.keys[key]
	}
	t.mu.RUnlock()
	if !ok {
		return key
	}
	// Printers are not safe for concurrent use, so each lookup gets its own.
	return message.NewPrinter(t.tag, message.Catalog(b.builder)).Sprintf(key)
}

// ParseTranslations reads a YAML mapping of bundle name to key/text pairs.
func ParseTranslations(r io.Reader, tag language.Tag) (*Translations, error) {
	var raw map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	t := NewTranslations(tag)
	for name, entries := range raw {
		for key, text := range entries {
			if err := t.Set(name, key, text); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// LoadTranslations reads a YAML translations file.
func LoadTranslations(path string, tag language.Tag) (*Translations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open translations: %w", err)
	}
	defer f.Close()
	return ParseTranslations(f, tag)
}
