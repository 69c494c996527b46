package report

import "sync"

// Tracker remembers which recipients were sent a redacted rendering of an
// entry. Membership only grows, and the tracker is safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	recipients []string
}

// Record adds recipient to the set. Recording the same recipient twice is a no-op.
func (t *Tracker) Record(recipient string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.recipients {
		if r == recipient {
			return
		}
	}
	t.recipients = append(t.recipients, recipient)
}

// Has reports whether recipient was sent a redacted rendering.
func (t *Tracker) Has(recipient string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.recipients {
		if r == recipient {
			return true
		}
	}
	return false
}

// List returns the recorded recipients in the order they were first seen.
func (t *Tracker) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.recipients))
	copy(out, t.recipients)
	return out
}

// Len returns the number of recorded recipients.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.recipients)
}

// RecordRedactedDelivery notes that recipient received a redacted version of e.
func RecordRedactedDelivery(e *Entry, recipient string) {
	e.tracker.Record(recipient)
}

// WasRedactedFor reports whether recipient previously received a redacted version of e.
func WasRedactedFor(e *Entry, recipient string) bool {
	return e.tracker.Has(recipient)
}

// Obscure returns the view of e that recipient should be rendered from.
//
// With full set, e itself is returned untouched. Otherwise a clone is made
// with every sensitive value redacted, and recipient is recorded on e so a
// later replay can reproduce the same redacted view.
func Obscure(e *Entry, recipient string, full bool) *Entry {
	if full {
		return e
	}
	view := e.Clone()
	for i, v := range view.values {
		if v.sensitive {
			view.values[i] = v.redact()
		}
	}
	RecordRedactedDelivery(e, recipient)
	return view
}
