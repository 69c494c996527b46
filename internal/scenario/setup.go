package scenario

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Garsondee/battle-report/internal/catalog"
	"github.com/Garsondee/battle-report/internal/config"
	"github.com/Garsondee/battle-report/internal/phase"
	"github.com/Garsondee/battle-report/internal/reporttext"
)

// LoadCatalog reads the configured catalog, or the built-in one when no
// path is set.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return DefaultCatalog()
	}
	return catalog.Load(cfg.Catalog.Path)
}

// LoadTranslations reads the configured translation bundles, or the built-in
// ones when no file is set.
func LoadTranslations(cfg *config.Config) (*catalog.Translations, error) {
	tag, err := cfg.Language()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Translations == "" {
		return DefaultTranslations(tag)
	}
	return catalog.LoadTranslations(cfg.Catalog.Translations, tag)
}

// NewRenderer builds a renderer for s from cfg, applying the scenario's
// sight table as a double-blind policy. Resolution counters are recorded on
// mp; a nil mp uses the global meter provider.
func NewRenderer(s *Scenario, cfg *config.Config, logger *zap.Logger, mp metric.MeterProvider) (*phase.Renderer, error) {
	cat, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	tr, err := LoadTranslations(cfg)
	if err != nil {
		return nil, err
	}
	m := reporttext.DefaultMetrics()
	if mp != nil {
		if m, err = reporttext.NewMetrics(mp); err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
	}
	res := reporttext.NewResolver(cat,
		reporttext.WithTranslator(tr),
		reporttext.WithMetrics(m),
		reporttext.WithLogger(logger),
		reporttext.WithIndentUnit(cfg.Render.IndentUnit),
		reporttext.WithMaxNesting(cfg.Render.MaxNesting),
	)
	return phase.NewRenderer(res, s.Policy(),
		phase.WithWorkers(cfg.Render.Workers),
		phase.WithLogger(logger),
	), nil
}
