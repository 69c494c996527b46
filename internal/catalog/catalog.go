// Package catalog loads the report message catalog and the translation
// bundles used for secondary lookups.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformedLine is returned for a catalog line that is not id::template.
	ErrMalformedLine = errors.New("catalog: malformed line")
	// ErrDuplicateID is returned when an id is defined twice.
	ErrDuplicateID = errors.New("catalog: duplicate message id")
)

// Catalog maps report message ids to raw templates.
type Catalog struct {
	messages map[int]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{messages: make(map[int]string)}
}

// Message returns the raw template for id.
func (c *Catalog) Message(id int) (string, bool) {
	s, ok := c.messages[id]
	return s, ok
}

// Set defines or replaces the template for id.
func (c *Catalog) Set(id int, template string) {
	c.messages[id] = template
}

// Len returns the number of messages.
func (c *Catalog) Len() int { return len(c.messages) }

// IDs returns every message id in ascending order.
func (c *Catalog) IDs() []int {
	ids := make([]int, 0, len(c.messages))
	for id := range c.messages {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Parse reads id::template lines. Blank lines and lines starting with '#'
// or '!' are skipped. The escapes \n, \t and \\ are expanded in templates.
func Parse(r io.Reader) (*Catalog, error) {
	c := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSuffix(sc.Text(), "\r")
		text := strings.TrimSpace(raw)
		if text == "" || text[0] == '#' || text[0] == '!' {
			continue
		}
		// Whitespace after :: belongs to the template.
		key, tmpl, ok := strings.Cut(raw, "::")
		if !ok {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedLine, line, text)
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w %d: bad id %q", ErrMalformedLine, line, key)
		}
		if _, dup := c.messages[id]; dup {
			return nil, fmt.Errorf("%w %d on line %d", ErrDuplicateID, id, line)
		}
		c.messages[id] = unescape(tmpl)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return c, nil
}

// ParseYAML reads a mapping of message id to template.
func ParseYAML(r io.Reader) (*Catalog, error) {
	var raw map[int]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := New()
	for id, tmpl := range raw {
		c.messages[id] = tmpl
	}
	return c, nil
}

// Load reads a catalog file. Files ending in .yaml or .yml are read as YAML,
// anything else as id::template lines.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return Parse(f)
	}
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
