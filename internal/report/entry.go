// Package report models the entries of a per-phase combat report log and
// the bookkeeping needed to show each player a redacted view of them.
package report

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultIndentation is the number of columns added per indentation level.
const DefaultIndentation = 4

// None marks an unset subject entity or target player.
const None = -1

// ErrIndexOutOfRange is returned when a value index does not exist on an entry.
var ErrIndexOutOfRange = errors.New("report: value index out of range")

// Visibility controls how an entry is handled during double-blind play.
type Visibility int

const (
	// Public entries are shown unredacted to everyone.
	Public Visibility = iota
	// Obscured entries are shown to everyone with sensitive values masked.
	Obscured
	// Hidden entries are only shown in full to recipients who can see the subject.
	Hidden
	// Debug entries are wrapped in diagnostic markers when rendered.
	Debug
	// Player entries concern a single target player.
	Player
)

var visibilityNames = [...]string{"public", "obscured", "hidden", "debug", "player"}

func (v Visibility) String() string {
	if v < 0 || int(v) >= len(visibilityNames) {
		return fmt.Sprintf("visibility(%d)", int(v))
	}
	return visibilityNames[v]
}

// ParseVisibility maps a lower-case visibility name to its value.
func ParseVisibility(s string) (Visibility, error) {
	for i, n := range visibilityNames {
		if n == s {
			return Visibility(i), nil
		}
	}
	return Hidden, fmt.Errorf("report: unknown visibility %q", s)
}

// Value is one substitution value. A redacted value has no payload and
// cannot be turned back into a present one.
type Value struct {
	payload   string
	redacted  bool
	sensitive bool
}

// Payload returns the value text, or false when the value was redacted.
func (v Value) Payload() (string, bool) {
	if v.redacted {
		return "", false
	}
	return v.payload, true
}

// Redacted reports whether the payload has been removed.
func (v Value) Redacted() bool { return v.redacted }

// Sensitive reports whether the value may be masked for double-blind recipients.
func (v Value) Sensitive() bool { return v.sensitive }

func (v Value) redact() Value {
	return Value{redacted: true, sensitive: v.sensitive}
}

// Entry is a single report produced while processing a simulation event.
//
// Values must be added in the same order the tags appear in the catalog
// template for MessageID. Entries are built during one processing step and
// are read-only afterwards, except for the obscured-recipient tracker.
type Entry struct {
	MessageID int

	// Indentation is measured in columns, in multiples of DefaultIndentation.
	Indentation int
	// Newlines is the number of line breaks appended after the text.
	Newlines int

	// TranslationKey names the bundle string values are looked up in before
	// insertion. Empty means no translation.
	TranslationKey string

	Visibility Visibility
	Subject    int
	Player     int

	// SpriteMarker is injected at the head of the rendered line.
	SpriteMarker string
	// ShowImage forces the sprite marker even for deeply indented entries.
	ShowImage bool

	values  []Value
	tracker Tracker
}

// New creates an entry for the given catalog id with hidden visibility.
func New(id int) *Entry {
	return NewWithVisibility(id, Hidden)
}

// NewWithVisibility creates an entry for the given catalog id and visibility.
func NewWithVisibility(id int, v Visibility) *Entry {
	return &Entry{
		MessageID:  id,
		Newlines:   1,
		Visibility: v,
		Subject:    None,
		Player:     None,
	}
}

// Add appends a sensitive string value and clears any translation key.
func (e *Entry) Add(data string) {
	e.AddObscure(data, true)
}

// AddObscure appends a string value, marking it sensitive when obscure is
// true. Any previous translation key is cleared.
func (e *Entry) AddObscure(data string, obscure bool) {
	e.values = append(e.values, Value{payload: data, sensitive: obscure})
	e.TranslationKey = ""
}

// AddTranslated appends a sensitive string value and sets the translation
// key used for string substitutions.
func (e *Entry) AddTranslated(data, key string) {
	e.values = append(e.values, Value{payload: data, sensitive: true})
	e.TranslationKey = key
}

// AddInt appends a sensitive integer value.
func (e *Entry) AddInt(n int) {
	e.AddObscure(strconv.Itoa(n), true)
}

// AddIntObscure appends an integer value, marking it sensitive when obscure is true.
func (e *Entry) AddIntObscure(n int, obscure bool) {
	e.AddObscure(strconv.Itoa(n), obscure)
}

// Choose appends the selector for a <msg:A,B> tag: true picks A, false picks B.
func (e *Entry) Choose(choice bool) {
	e.values = append(e.values, Value{payload: strconv.FormatBool(choice)})
}

// Hide irreversibly removes the value at index. Hiding an already redacted
// value does nothing.
func (e *Entry) Hide(index int) error {
	if index < 0 || index >= len(e.values) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(e.values))
	}
	if e.values[index].redacted {
		return nil
	}
	e.values[index] = e.values[index].redact()
	return nil
}

// Indent indents the entry by one level.
func (e *Entry) Indent() {
	e.IndentBy(1)
}

// IndentBy indents the entry by n levels. Indentation never drops below zero.
func (e *Entry) IndentBy(n int) {
	e.Indentation += n * DefaultIndentation
	if e.Indentation < 0 {
		e.Indentation = 0
	}
}

// IsObscured reports whether the value at index was marked sensitive.
func (e *Entry) IsObscured(index int) bool {
	if index < 0 || index >= len(e.values) {
		return false
	}
	return e.values[index].sensitive
}

// Len returns the number of values, including <msg> selectors.
func (e *Entry) Len() int { return len(e.values) }

// Value returns the value at index.
func (e *Entry) Value(index int) (Value, bool) {
	if index < 0 || index >= len(e.values) {
		return Value{}, false
	}
	return e.values[index], true
}

// Values returns a copy of all values in insertion order.
func (e *Entry) Values() []Value {
	out := make([]Value, len(e.values))
	copy(out, e.values)
	return out
}

// Recipients returns the tracker of recipients who got a redacted rendering.
func (e *Entry) Recipients() *Tracker { return &e.tracker }

// Clone returns a deep copy of the entry, including its tracker state.
func (e *Entry) Clone() *Entry {
	c := &Entry{
		MessageID:      e.MessageID,
		Indentation:    e.Indentation,
		Newlines:       e.Newlines,
		TranslationKey: e.TranslationKey,
		Visibility:     e.Visibility,
		Subject:        e.Subject,
		Player:         e.Player,
		SpriteMarker:   e.SpriteMarker,
		ShowImage:      e.ShowImage,
		values:         e.Values(),
	}
	c.tracker.recipients = e.tracker.List()
	return c
}

func (e *Entry) String() string {
	return fmt.Sprintf("Report(messageId=%d)", e.MessageID)
}

// IndentAll indents every entry by n levels.
func IndentAll(entries []*Entry, n int) {
	for _, e := range entries {
		if e != nil {
			e.IndentBy(n)
		}
	}
}
