package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/strongdm/relevel/pkg/relevel"
	"github.com/strongdm/relevel/pkg/relevel/formatters/hclogfmt"
	"github.com/strongdm/relevel/pkg/relevel/formatters/slogfmt"
	"github.com/strongdm/relevel/pkg/relevel/formatters/zapfmt"
	"github.com/strongdm/relevel/pkg/tracing"
	"github.com/strongdm/relevel/pkg/tracing/slogbridge"
)

type demoOptions struct {
	rulesPath string
	format    string
	json      bool
	noTime    bool
	capacity  int
	recycle   bool
}

func newDemoCmd() *cobra.Command {
	opts := &demoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a fixed set of sample events with overrides applied",
		Long: `Emits sample events from demo/worker.go and demo/http.go through a
subscriber whose formatter is wrapped by the override layer.

Sample callsites:
  demo/worker.go:42  ERROR  "tick failed"       count
  demo/worker.go:57  WARN   "slow response"     elapsed
  demo/http.go:12    INFO   "request served"    status (inside span "request")
  demo/http.go:30    DEBUG  "cache miss"        key (logged through slog)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "rule file to apply (default: no overrides)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "hclog", "output format: hclog, zap, slog")
	cmd.Flags().BoolVar(&opts.json, "json", false, "render JSON lines")
	cmd.Flags().BoolVar(&opts.noTime, "no-time", false, "omit timestamps")
	cmd.Flags().IntVar(&opts.capacity, "capacity", relevel.DefaultCapacity, "fields kept per rebuilt event")
	cmd.Flags().BoolVar(&opts.recycle, "recycle", false, "recycle rebuilt event storage")
	return cmd
}

func runDemo(cmd *cobra.Command, opts *demoOptions) error {
	logger := diagnostics(cmd)

	var rules relevel.Rules
	if opts.rulesPath != "" {
		loaded, err := relevel.LoadRulesFile(opts.rulesPath)
		if err != nil {
			return err
		}
		rules = loaded
	}

	downstream, err := demoFormatter(opts)
	if err != nil {
		return err
	}

	retention := relevel.RetainFresh
	if opts.recycle {
		retention = relevel.RecycleScratch
	}

	sub := tracing.NewSubscriber(
		tracing.WithFormatter(downstream),
		tracing.MapFormatter(func(next tracing.Formatter) tracing.Formatter {
			return relevel.New(next, rules.Check(),
				relevel.WithCapacity(opts.capacity),
				relevel.WithRetention(retention),
				relevel.WithLogger(logger.Named("formatter")),
			)
		}),
		tracing.WithOutput(cmd.OutOrStdout()),
		tracing.WithLogger(logger.Named("subscriber")),
	)

	logger.Debug("running demo", "format", opts.format, "json", opts.json, "rules", len(rules))
	return emitSamples(cmd.Context(), sub)
}

func demoFormatter(opts *demoOptions) (tracing.Formatter, error) {
	switch opts.format {
	case "hclog":
		var o []hclogfmt.Option
		if opts.json {
			o = append(o, hclogfmt.WithJSON())
		}
		if opts.noTime {
			o = append(o, hclogfmt.WithoutTime())
		}
		return hclogfmt.New(o...), nil
	case "zap":
		var o []zapfmt.Option
		if opts.json {
			o = append(o, zapfmt.WithJSON())
		}
		if opts.noTime {
			o = append(o, zapfmt.WithoutTime())
		}
		return zapfmt.New(o...), nil
	case "slog":
		var o []slogfmt.Option
		if opts.json {
			o = append(o, slogfmt.WithJSON())
		}
		if opts.noTime {
			o = append(o, slogfmt.WithoutTime())
		}
		return slogfmt.New(o...), nil
	}
	return nil, fmt.Errorf("invalid output format: %s (must be 'hclog', 'zap' or 'slog')", opts.format)
}

var (
	tickSite = tracing.NewCallsite(tracing.CallsiteConfig{
		Name:   "tick",
		Target: "demo/worker",
		Level:  tracing.LevelError,
		File:   "demo/worker.go",
		Line:   42,
		Fields: []string{"message", "count"},
	})
	slowSite = tracing.NewCallsite(tracing.CallsiteConfig{
		Name:   "slow",
		Target: "demo/worker",
		Level:  tracing.LevelWarn,
		File:   "demo/worker.go",
		Line:   57,
		Fields: []string{"message", "elapsed"},
	})
	requestSpan = tracing.NewCallsite(tracing.CallsiteConfig{
		Name:   "request",
		Target: "demo/http",
		Level:  tracing.LevelInfo,
		Kind:   tracing.KindSpan,
		File:   "demo/http.go",
		Line:   10,
		Fields: []string{"path"},
	})
	servedSite = tracing.NewCallsite(tracing.CallsiteConfig{
		Name:   "served",
		Target: "demo/http",
		Level:  tracing.LevelInfo,
		File:   "demo/http.go",
		Line:   12,
		Fields: []string{"message", "status"},
	})
)

func emitSamples(ctx context.Context, sub *tracing.Subscriber) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for i := 1; i <= 3; i++ {
		errs = append(errs, tickSite.Event(ctx, sub, "tick failed", i))
	}
	errs = append(errs, slowSite.Event(ctx, sub, "slow response", 1500*time.Millisecond))

	reqCtx, id := requestSpan.Span(ctx, sub, "/orders")
	errs = append(errs, servedSite.Event(reqCtx, sub, "request served", 200))
	sub.CloseSpan(id)

	bridged := slog.New(slogbridge.NewHandler(sub, slogbridge.WithTarget("demo/cache")))
	bridged.DebugContext(ctx, "cache miss", "key", "orders:42")

	return errors.Join(errs...)
}
