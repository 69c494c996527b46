// Package phase keeps the ordered report log of one game phase and renders
// it for each recipient.
package phase

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Garsondee/battle-report/internal/report"
)

// ErrSealed is returned when entries are added to a sealed log.
var ErrSealed = errors.New("phase: log is sealed")

// Log is the ordered list of report entries produced during one phase.
//
// The simulation driver is the only writer. Renderers work from a Snapshot,
// so entries appended after a snapshot was taken are not rendered by it.
type Log struct {
	id    uuid.UUID
	name  string
	mu    sync.RWMutex
	items []*report.Entry
	seal  bool
}

// NewLog creates an empty log for the named phase.
func NewLog(name string) *Log {
	return &Log{id: uuid.New(), name: name}
}

// ID returns the unique id of this phase log.
func (l *Log) ID() uuid.UUID { return l.id }

// Name returns the phase name.
func (l *Log) Name() string { return l.name }

// Add appends entries in order.
func (l *Log) Add(entries ...*report.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seal {
		return ErrSealed
	}
	for _, e := range entries {
		if e != nil {
			l.items = append(l.items, e)
		}
	}
	return nil
}

// AddNewline adds a blank line after the last entry. It does nothing on an
// empty or sealed log.
func (l *Log) AddNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seal || len(l.items) == 0 {
		return
	}
	l.items[len(l.items)-1].Newlines++
}

// IndentAll indents every entry currently in the log by n levels.
func (l *Log) IndentAll(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seal {
		return
	}
	report.IndentAll(l.items, n)
}

// Seal stops further writes. Rendering does not require a sealed log.
func (l *Log) Seal() {
	l.mu.Lock()
	l.seal = true
	l.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (l *Log) Sealed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seal
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Snapshot returns the entries present now. The slice is a copy; the
// entries are shared.
func (l *Log) Snapshot() []*report.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*report.Entry, len(l.items))
	copy(out, l.items)
	return out
}

// Clear drops every entry and reopens the log for the next phase.
func (l *Log) Clear(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.seal = false
	l.name = name
	l.id = uuid.New()
}
