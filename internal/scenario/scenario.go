// Package scenario builds phase logs from YAML scripts, standing in for the
// simulation driver when rendering reports outside a running game.
package scenario

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/battle-report/internal/catalog"
	"github.com/Garsondee/battle-report/internal/phase"
	"github.com/Garsondee/battle-report/internal/report"
)

//go:embed assets
var assets embed.FS

// Unit is a simulation entity that reports can describe.
type Unit struct {
	UnitID int    `yaml:"id"`
	Name   string `yaml:"name"`
	Owner  string `yaml:"owner"`
	Colour string `yaml:"colour"`
}

func (u Unit) ID() int             { return u.UnitID }
func (u Unit) ShortName() string   { return u.Name }
func (u Unit) OwnerName() string   { return u.Owner }
func (u Unit) OwnerColour() string { return u.Colour }

// Scenario is a decoded phase script.
type Scenario struct {
	Log        *phase.Log
	Recipients []phase.Recipient
	Units      map[int]Unit
	// Sight lists the entity ids each recipient can see.
	Sight map[string][]int
}

// Policy returns the double-blind policy implied by the sight table.
func (s *Scenario) Policy() phase.DoubleBlind {
	return phase.DoubleBlind{Sees: func(r phase.Recipient, subject int) bool {
		for _, id := range s.Sight[r.Name] {
			if id == subject {
				return true
			}
		}
		return false
	}}
}

// Recipient finds a recipient by name.
func (s *Scenario) Recipient(name string) (phase.Recipient, bool) {
	for _, r := range s.Recipients {
		if r.Name == name {
			return r, true
		}
	}
	return phase.Recipient{}, false
}

type script struct {
	Phase      string           `yaml:"phase"`
	Recipients []recipientSpec  `yaml:"recipients"`
	Sight      map[string][]int `yaml:"sight"`
	Units      []Unit           `yaml:"units"`
	Entries    []entrySpec      `yaml:"entries"`
}

type recipientSpec struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Observer bool   `yaml:"observer"`
}

type entrySpec struct {
	ID         int         `yaml:"id"`
	Visibility string      `yaml:"visibility"`
	Subject    *int        `yaml:"subject"`
	Player     *int        `yaml:"player"`
	Indent     int         `yaml:"indent"`
	Newlines   *int        `yaml:"newlines"`
	ShowImage  bool        `yaml:"show_image"`
	Values     []valueSpec `yaml:"values"`

	// Newline adds a blank line after the previous entry instead of
	// describing an entry.
	Newline bool `yaml:"newline"`
}

type valueSpec struct {
	Text      *string      `yaml:"text"`
	Int       *int         `yaml:"int"`
	Obscure   *bool        `yaml:"obscure"`
	Translate string       `yaml:"translate"`
	Choose    *bool        `yaml:"choose"`
	Desc      *int         `yaml:"desc"`
	Tooltip   *tooltipSpec `yaml:"tooltip"`
	Hide      bool         `yaml:"hide"`
}

type tooltipSpec struct {
	Data string `yaml:"data"`
	Text string `yaml:"text"`
}

// Parse decodes a phase script.
func Parse(r io.Reader) (*Scenario, error) {
	var sc script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	s := &Scenario{
		Log:   phase.NewLog(sc.Phase),
		Units: make(map[int]Unit, len(sc.Units)),
		Sight: sc.Sight,
	}
	for _, u := range sc.Units {
		s.Units[u.UnitID] = u
	}
	for _, r := range sc.Recipients {
		s.Recipients = append(s.Recipients, phase.Recipient{ID: r.ID, Name: r.Name, Observer: r.Observer})
	}

	for i, es := range sc.Entries {
		if es.Newline {
			s.Log.AddNewline()
			continue
		}
		e, err := s.build(es)
		if err != nil {
			return nil, fmt.Errorf("entry %d (message %d): %w", i, es.ID, err)
		}
		if err := s.Log.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scenario) build(es entrySpec) (*report.Entry, error) {
	vis := report.Hidden
	if es.Visibility != "" {
		v, err := report.ParseVisibility(es.Visibility)
		if err != nil {
			return nil, err
		}
		vis = v
	}
	e := report.NewWithVisibility(es.ID, vis)
	if es.Subject != nil {
		e.Subject = *es.Subject
	}
	if es.Player != nil {
		e.Player = *es.Player
	}
	if es.Newlines != nil {
		e.Newlines = *es.Newlines
	}
	e.ShowImage = es.ShowImage
	e.IndentBy(es.Indent)

	for i, v := range es.Values {
		if err := s.addValue(e, v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}
	return e, nil
}

func (s *Scenario) addValue(e *report.Entry, v valueSpec) error {
	obscure := v.Obscure == nil || *v.Obscure
	switch {
	case v.Desc != nil:
		u, ok := s.Units[*v.Desc]
		if !ok {
			return fmt.Errorf("unknown unit %d", *v.Desc)
		}
		e.AddDesc(u)
	case v.Tooltip != nil:
		e.AddWithTooltip(v.Tooltip.Data, v.Tooltip.Text)
	case v.Choose != nil:
		e.Choose(*v.Choose)
	case v.Int != nil:
		e.AddIntObscure(*v.Int, obscure)
	case v.Text != nil && v.Translate != "":
		e.AddTranslated(*v.Text, v.Translate)
	case v.Text != nil:
		e.AddObscure(*v.Text, obscure)
	default:
		return errors.New("value needs one of text, int, choose, desc or tooltip")
	}
	if v.Hide {
		return e.Hide(e.Len() - 1)
	}
	return nil
}

// Load reads a phase script file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Skirmish returns the built-in demo script.
func Skirmish() (*Scenario, error) {
	data, err := assets.ReadFile("assets/skirmish.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// DefaultCatalog returns the message catalog matching the built-in script.
func DefaultCatalog() (*catalog.Catalog, error) {
	data, err := assets.ReadFile("assets/messages.txt")
	if err != nil {
		return nil, err
	}
	return catalog.Parse(bytes.NewReader(data))
}

// DefaultTranslations returns the translation bundles for the built-in catalog.
func DefaultTranslations(tag language.Tag) (*catalog.Translations, error) {
	data, err := assets.ReadFile("assets/translations.yaml")
	if err != nil {
		return nil, err
	}
	return catalog.ParseTranslations(bytes.NewReader(data), tag)
}
