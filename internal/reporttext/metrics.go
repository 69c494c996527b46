package reporttext

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/battle-report/internal/report"
)

const instrumentationName = "github.com/Garsondee/battle-report/internal/reporttext"

// Metrics counts resolution outcomes. A nil instrument is skipped.
type Metrics struct {
	resolutions metric.Int64Counter
	failures    metric.Int64Counter
}

// NewMetrics creates the resolver instruments on the given meter provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(instrumentationName)

	resolutions, err := meter.Int64Counter("report.resolutions",
		metric.WithDescription("Report entries resolved to text"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("report.resolution_errors",
		metric.WithDescription("Report entries rendered with a diagnostic placeholder"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{resolutions: resolutions, failures: failures}, nil
}

// DefaultMetrics creates instruments on the global meter provider, falling
// back to no instruments if that fails.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return &Metrics{}
	}
	return m
}

func (m *Metrics) resolved(ctx context.Context, v report.Visibility) {
	if m.resolutions == nil {
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("visibility", v.String())))
}

func (m *Metrics) failed(ctx context.Context, reason string) {
	if m.failures == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
