package phase

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/battle-report/internal/report"
	"github.com/Garsondee/battle-report/internal/reporttext"
)

const defaultWorkers = 4

// Rendered is one recipient's view of a phase log.
type Rendered struct {
	Recipient Recipient
	Text      string
	// Delivered counts entries included in Text, Redacted those of them
	// shown with masked values, Failed those rendered as a placeholder.
	Delivered int
	Redacted  int
	Failed    int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers limits how many recipients RenderAll renders at once.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger for per-entry failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer renders phase logs for recipients according to a Policy.
type Renderer struct {
	resolver *reporttext.Resolver
	policy   Policy
	workers  int
	logger   *zap.Logger
}

// NewRenderer creates a renderer. A nil policy delivers everything in full.
func NewRenderer(res *reporttext.Resolver, policy Policy, opts ...Option) *Renderer {
	if policy == nil {
		policy = OpenPolicy
	}
	r := &Renderer{
		resolver: res,
		policy:   policy,
		workers:  defaultWorkers,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render renders the entries present in l for one recipient, recording
// redacted deliveries on the master entries.
func (r *Renderer) Render(ctx context.Context, l *Log, rcpt Recipient) (Rendered, error) {
	return r.render(ctx, l, rcpt, r.policy.Decide)
}

// Replay reconstructs what rcpt was shown earlier: entries recorded as
// redacted for rcpt are redacted again and everything else the policy does
// not omit is shown in full, regardless of what the recipient can see now.
func (r *Renderer) Replay(ctx context.Context, l *Log, rcpt Recipient) (Rendered, error) {
	return r.render(ctx, l, rcpt, func(e *report.Entry, rc Recipient) Decision {
		if report.WasRedactedFor(e, rc.Name) {
			return Redacted
		}
		if r.policy.Decide(e, rc) == Omit {
			return Omit
		}
		return Full
	})
}

// RenderAll renders l for every recipient concurrently. Results are in the
// order of rcpts.
func (r *Renderer) RenderAll(ctx context.Context, l *Log, rcpts []Recipient) ([]Rendered, error) {
	out := make([]Rendered, len(rcpts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, rc := range rcpts {
		i, rc := i, rc
		g.Go(func() error {
			res, err := r.Render(gctx, l, rc)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Renderer) render(ctx context.Context, l *Log, rcpt Recipient, decide func(*report.Entry, Recipient) Decision) (Rendered, error) {
	res := Rendered{Recipient: rcpt}
	var sb strings.Builder

	for _, e := range l.Snapshot() {
		if err := ctx.Err(); err != nil {
			return Rendered{}, err
		}
		d := decide(e, rcpt)
		if d == Omit {
			continue
		}
		view := report.Obscure(e, rcpt.Name, d == Full)
		text, err := r.resolver.Resolve(view)
		if err != nil {
			res.Failed++
			r.logger.Warn("report entry rendered with errors",
				zap.String("phase", l.Name()),
				zap.String("recipient", rcpt.Name),
				zap.Stringer("entry", e),
				zap.Error(err))
		}
		if d == Redacted {
			res.Redacted++
		}
		res.Delivered++
		sb.WriteString(text)
	}
	res.Text = sb.String()
	return res, nil
}
