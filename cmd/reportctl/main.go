package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/Garsondee/battle-report/internal/catalog"
	"github.com/Garsondee/battle-report/internal/config"
	"github.com/Garsondee/battle-report/internal/logging"
	"github.com/Garsondee/battle-report/internal/phase"
	"github.com/Garsondee/battle-report/internal/scenario"
)

var errLintProblems = errors.New("catalog has problems")

type options struct {
	configPath   string
	catalogPath  string
	scenarioPath string
	recipient    string
	all          bool
	copyOut      bool
	metrics      bool
	spot         []int

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Render and check combat report logs",
		Long: `reportctl resolves a phase script against a message catalog and prints
what each recipient is shown, with double-blind redaction applied.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.catalogPath != "" {
				cfg.Catalog.Path = opts.catalogPath
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "message catalog file (overrides config)")

	render := &cobra.Command{
		Use:   "render",
		Short: "Render a phase script for one or all recipients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	render.Flags().StringVar(&opts.scenarioPath, "scenario", "", "phase script (YAML); empty uses the built-in skirmish")
	render.Flags().StringVar(&opts.recipient, "recipient", "", "recipient to render for")
	render.Flags().BoolVar(&opts.all, "all", false, "render for every recipient")
	render.Flags().BoolVar(&opts.copyOut, "copy", false, "also copy the output to the clipboard")
	render.Flags().BoolVar(&opts.metrics, "metrics", false, "print resolution counters after the report")

	replay := &cobra.Command{
		Use:   "replay",
		Short: "Render every recipient, then replay one recipient's log",
		Long: `replay renders the script for every recipient, optionally lets the
replayed recipient spot more units, and then reconstructs what that
recipient was originally shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	replay.Flags().StringVar(&opts.scenarioPath, "scenario", "", "phase script (YAML); empty uses the built-in skirmish")
	replay.Flags().StringVar(&opts.recipient, "recipient", "", "recipient to replay")
	replay.Flags().IntSliceVar(&opts.spot, "spot", nil, "unit ids the recipient sees after the first render")
	_ = replay.MarkFlagRequired("recipient")

	lint := &cobra.Command{
		Use:   "lint",
		Short: "Check the message catalog for broken <msg> references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.OutOrStdout(), opts)
		},
	}

	root.AddCommand(render, replay, lint)
	return root
}

func runRender(ctx context.Context, out io.Writer, opts *options) error {
	if opts.all == (opts.recipient != "") {
		return errors.New("use exactly one of --recipient or --all")
	}
	var (
		reader *sdkmetric.ManualReader
		mp     metric.MeterProvider
	)
	if opts.metrics {
		reader = sdkmetric.NewManualReader()
		mp = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	}
	s, r, err := setup(opts, mp)
	if err != nil {
		return err
	}

	rcpts := s.Recipients
	if !opts.all {
		rc, ok := s.Recipient(opts.recipient)
		if !ok {
			return fmt.Errorf("unknown recipient %q", opts.recipient)
		}
		rcpts = []phase.Recipient{rc}
	}

	views, err := r.RenderAll(ctx, s.Log, rcpts)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, v := range views {
		writeView(&sb, s.Log.Name(), v)
	}
	if reader != nil {
		if err := writeMetrics(ctx, &sb, reader); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(out, sb.String()); err != nil {
		return err
	}
	if opts.copyOut {
		if err := clipboard.WriteAll(sb.String()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		opts.logger.Info("report copied to clipboard", zap.Int("bytes", sb.Len()))
	}
	return nil
}

func runReplay(ctx context.Context, out io.Writer, opts *options) error {
	s, r, err := setup(opts, nil)
	if err != nil {
		return err
	}
	rc, ok := s.Recipient(opts.recipient)
	if !ok {
		return fmt.Errorf("unknown recipient %q", opts.recipient)
	}

	if _, err := r.RenderAll(ctx, s.Log, s.Recipients); err != nil {
		return err
	}
	if len(opts.spot) > 0 {
		if s.Sight == nil {
			s.Sight = make(map[string][]int)
		}
		s.Sight[rc.Name] = append(s.Sight[rc.Name], opts.spot...)
	}

	v, err := r.Replay(ctx, s.Log, rc)
	if err != nil {
		return err
	}
	var sb strings.Builder
	writeView(&sb, s.Log.Name(), v)
	_, err = io.WriteString(out, sb.String())
	return err
}

func runLint(out io.Writer, opts *options) error {
	cat, err := scenario.LoadCatalog(opts.cfg)
	if err != nil {
		return err
	}
	problems := catalog.Lint(cat)
	for _, p := range problems {
		fmt.Fprintln(out, p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %d", errLintProblems, len(problems))
	}
	fmt.Fprintf(out, "OK: %d messages\n", cat.Len())
	return nil
}

func writeView(sb *strings.Builder, phaseName string, v phase.Rendered) {
	fmt.Fprintf(sb, "=== %s: %s ===\n", phaseName, v.Recipient.Name)
	fmt.Fprintf(sb, "delivered=%d redacted=%d failed=%d\n", v.Delivered, v.Redacted, v.Failed)
	sb.WriteString(v.Text)
	sb.WriteString("\n")
}

// writeMetrics prints the resolver counters summed over their attributes.
func writeMetrics(ctx context.Context, sb *strings.Builder, reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[md.Name] += dp.Value
			}
		}
	}
	for _, name := range []string{"report.resolutions", "report.resolution_errors"} {
		fmt.Fprintf(sb, "metric %s=%d\n", name, totals[name])
	}
	return nil
}

// setup loads the script and builds a renderer from the loaded config.
// A nil mp records on the global meter provider.
func setup(opts *options, mp metric.MeterProvider) (*scenario.Scenario, *phase.Renderer, error) {
	var (
		s   *scenario.Scenario
		err error
	)
	if opts.scenarioPath != "" {
		s, err = scenario.Load(opts.scenarioPath)
	} else {
		s, err = scenario.Skirmish()
	}
	if err != nil {
		return nil, nil, err
	}
	r, err := scenario.NewRenderer(s, opts.cfg, opts.logger, mp)
	if err != nil {
		return nil, nil, err
	}
	return s, r, nil
}
