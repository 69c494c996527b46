// Package reporttext turns report entries into display text by resolving
// their catalog templates.
package reporttext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Garsondee/battle-report/internal/report"
)

const (
	// MaskToken replaces every redacted value.
	MaskToken = "????"
	// DebugOpen and DebugClose wrap the text of debug entries.
	DebugOpen  = "<hidden>"
	DebugClose = "</hidden>"

	defaultIndentUnit = "&nbsp;"
	defaultMaxNesting = 8
	leadingBreakGroup = "\n\n\n\n"
)

var (
	// ErrMissingMessage is returned when the catalog has no template for an id.
	ErrMissingMessage = errors.New("reporttext: no catalog message")
	// ErrValuesExhausted is returned when a template has more value tags than the entry has values.
	ErrValuesExhausted = errors.New("reporttext: entry values exhausted")
	// ErrNestingTooDeep is returned when <msg> expansion exceeds the nesting limit.
	ErrNestingTooDeep = errors.New("reporttext: msg nesting too deep")
)

// Catalog looks up raw templates by message id.
type Catalog interface {
	Message(id int) (string, bool)
}

// Translator performs the secondary lookup for entries with a translation key.
type Translator interface {
	Translate(bundle, key string) string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTranslator sets the translator used for entries with a translation key.
func WithTranslator(t Translator) Option {
	return func(r *Resolver) { r.translator = t }
}

// WithLogger sets the logger used to report resolution failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIndentUnit sets the text emitted per indentation column.
func WithIndentUnit(unit string) Option {
	return func(r *Resolver) { r.indentUnit = unit }
}

// WithMaxNesting limits how deep <msg> tags may expand into further templates.
func WithMaxNesting(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxNesting = n
		}
	}
}

// WithMetrics sets the instruments resolution outcomes are counted on.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// Resolver produces display text for report entries. A Resolver holds no
// per-call state and may be shared between goroutines.
type Resolver struct {
	catalog    Catalog
	translator Translator
	logger     *zap.Logger
	metrics    *Metrics
	indentUnit string
	maxNesting int
}

// NewResolver creates a resolver reading templates from cat.
func NewResolver(cat Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:    cat,
		logger:     zap.NewNop(),
		indentUnit: defaultIndentUnit,
		maxNesting: defaultMaxNesting,
	}
	for _, o := range opts {
		o(r)
	}
	if r.metrics == nil {
		r.metrics = DefaultMetrics()
	}
	return r
}

// pass is the state of one resolution. It never outlives a Resolve call.
type pass struct {
	r      *Resolver
	entry  *report.Entry
	cursor int
	sb     strings.Builder
}

// Text resolves e and discards the error; failures are logged and show up
// as placeholders in the returned text.
func (r *Resolver) Text(e *report.Entry) string {
	text, _ := r.Resolve(e)
	return text
}

// Resolve renders e for one viewer. The entry must already carry the view
// the viewer is allowed to see (see report.Obscure).
//
// On failure the returned text still contains a diagnostic placeholder so a
// batch can carry on with the next entry.
func (r *Resolver) Resolve(e *report.Entry) (string, error) {
	ctx := context.Background()

	raw, ok := r.catalog.Message(e.MessageID)
	if !ok {
		r.logger.Warn("no catalog message for report", zap.Int("message_id", e.MessageID))
		r.metrics.failed(ctx, "missing_message")
		text := fmt.Sprintf("[Reporting Error for message ID %d]", e.MessageID)
		return r.finish(e, text), fmt.Errorf("%w: %d", ErrMissingMessage, e.MessageID)
	}

	p := &pass{r: r, entry: e}
	err := p.expand(Tokenize(raw), 0)
	if err != nil {
		r.logger.Warn("report resolution aborted",
			zap.Int("message_id", e.MessageID),
			zap.Int("index", p.cursor),
			zap.Int("values", e.Len()),
			zap.Error(err))
		r.metrics.failed(ctx, reason(err))
	}
	r.metrics.resolved(ctx, e.Visibility)
	return r.finish(e, p.sb.String()), err
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrValuesExhausted):
		return "values_exhausted"
	case errors.Is(err, ErrNestingTooDeep):
		return "nesting_too_deep"
	case errors.Is(err, ErrMissingMessage):
		return "missing_message"
	}
	return "other"
}

func (p *pass) expand(toks []Token, depth int) error {
	for _, t := range toks {
		switch t.Kind {
		case Literal:
			p.sb.WriteString(t.Text)
		case Newline:
			p.sb.WriteByte('\n')
		case Data:
			v, err := p.next()
			if err != nil {
				return err
			}
			p.sb.WriteString(p.render(v))
		case List:
			for i := p.cursor; i < p.entry.Len(); i++ {
				if i > p.cursor {
					p.sb.WriteString(", ")
				}
				v, _ := p.entry.Value(i)
				p.sb.WriteString(p.render(v))
			}
			p.cursor = p.entry.Len()
		case Msg:
			v, err := p.next()
			if err != nil {
				return err
			}
			id := t.IfFalse
			if s, ok := v.Payload(); ok && s == "true" {
				id = t.IfTrue
			}
			if err := p.expandMessage(id, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pass) expandMessage(id, depth int) error {
	if depth > p.r.maxNesting {
		fmt.Fprintf(&p.sb, "[Reporting Error: message ID %d nested too deep]", id)
		return fmt.Errorf("%w: %d levels at message %d", ErrNestingTooDeep, depth, id)
	}
	raw, ok := p.r.catalog.Message(id)
	if !ok {
		fmt.Fprintf(&p.sb, "[Reporting Error for message ID %d]", id)
		return fmt.Errorf("%w: %d", ErrMissingMessage, id)
	}
	return p.expand(Tokenize(raw), depth)
}

func (p *pass) next() (report.Value, error) {
	v, ok := p.entry.Value(p.cursor)
	if !ok {
		fmt.Fprintf(&p.sb, "[Reporting Error: missing data for message ID %d]", p.entry.MessageID)
		return report.Value{}, fmt.Errorf("%w: tag %d of message %d has %d values",
			ErrValuesExhausted, p.cursor+1, p.entry.MessageID, p.entry.Len())
	}
	p.cursor++
	return v, nil
}

func (p *pass) render(v report.Value) string {
	s, ok := v.Payload()
	if !ok {
		return MaskToken
	}
	if key := p.entry.TranslationKey; key != "" && p.r.translator != nil {
		return p.r.translator.Translate(key, s)
	}
	return s
}

// finish applies the sprite marker, indentation, trailing newlines and
// debug markers to the resolved body text.
func (r *Resolver) finish(e *report.Entry, body string) string {
	if e.SpriteMarker != "" && (e.Indentation <= report.DefaultIndentation || e.ShowImage) {
		if strings.HasPrefix(body, "\n") {
			body = "\n" + e.SpriteMarker + body[1:]
		} else {
			body = e.SpriteMarker + body
		}
	}

	if e.Indentation > 0 && body != "" {
		i := 0
		for strings.HasPrefix(body[i:], leadingBreakGroup) {
			i += len(leadingBreakGroup)
		}
		body = body[:i] + strings.Repeat(r.indentUnit, e.Indentation) + body[i:]
	}

	newlines := ""
	if e.Newlines > 0 {
		newlines = strings.Repeat("\n", e.Newlines)
	}

	if e.Visibility == report.Debug {
		return DebugOpen + strings.TrimRight(body, "\n") + DebugClose + trailingBreaks(body) + newlines
	}
	return body + newlines
}

func trailingBreaks(s string) string {
	return s[len(strings.TrimRight(s, "\n")):]
}
