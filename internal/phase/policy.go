package phase

import "github.com/Garsondee/battle-report/internal/report"

// Recipient is a player (or observer) a phase log is rendered for.
type Recipient struct {
	ID   int
	Name string
	// Observer recipients see everything, including debug entries.
	Observer bool
}

// Decision is how an entry is delivered to one recipient.
type Decision int

const (
	// Omit leaves the entry out of the recipient's log.
	Omit Decision = iota
	// Redacted delivers the entry with sensitive values masked.
	Redacted
	// Full delivers the entry unredacted.
	Full
)

func (d Decision) String() string {
	switch d {
	case Omit:
		return "omit"
	case Redacted:
		return "redacted"
	case Full:
		return "full"
	}
	return "unknown"
}

// Policy decides how each entry reaches each recipient. The owning game
// supplies it; the renderer only carries out its decisions.
type Policy interface {
	Decide(e *report.Entry, r Recipient) Decision
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(e *report.Entry, r Recipient) Decision

// Decide calls f.
func (f PolicyFunc) Decide(e *report.Entry, r Recipient) Decision { return f(e, r) }

// OpenPolicy delivers every non-debug entry in full, for games without
// double-blind rules.
var OpenPolicy = PolicyFunc(func(e *report.Entry, r Recipient) Decision {
	if e.Visibility == report.Debug && !r.Observer {
		return Omit
	}
	return Full
})

// DoubleBlind is a double-blind policy driven by what each recipient can see.
type DoubleBlind struct {
	// Sees reports whether recipient r can currently see entity subject.
	Sees func(r Recipient, subject int) bool
}

// Decide applies the double-blind rules:
//
//	public   full for everyone
//	player   full for the target player, omitted for others
//	debug    full for observers, omitted for others
//	obscured full for those who see the subject, redacted for the rest
//	hidden   as obscured; entries without a subject are public
func (p DoubleBlind) Decide(e *report.Entry, r Recipient) Decision {
	if r.Observer {
		return Full
	}
	switch e.Visibility {
	case report.Public:
		return Full
	case report.Player:
		if e.Player == r.ID {
			return Full
		}
		return Omit
	case report.Debug:
		return Omit
	}
	if e.Subject == report.None {
		return Full
	}
	if p.Sees != nil && p.Sees(r, e.Subject) {
		return Full
	}
	return Redacted
}
