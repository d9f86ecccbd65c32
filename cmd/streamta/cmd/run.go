package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/streamta/config"
	"github.com/rustyeddy/streamta/journal"
	"github.com/rustyeddy/streamta/market"
	"github.com/rustyeddy/streamta/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a candle feed through the configured indicators",
	Long: `Run reads candles from the feed named in the config file, consolidates
them into bars when a consolidator is configured, and updates every indicator
in order. Bars and indicator values are journaled as configured.

Example:
  streamta run -f streamta.yaml
  streamta run -f streamta.yaml --feed data/eurusd-m1.csv.xz --report run.org`,
	RunE: runRun,
}

var (
	runConfigPath  string
	runFeedPath    string
	runReportPath  string
	runMetricsAddr string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVar(&runFeedPath, "feed", "", "override feed.path")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "write an Org-mode run report to this path")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "override metrics.addr (e.g. :9102)")
	runCmd.MarkFlagRequired("config")
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.BarsFile, cfg.ValuesFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	}
	return journal.Nop{}, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.ReadFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runFeedPath != "" {
		cfg.Feed.Path = runFeedPath
	}
	if runMetricsAddr != "" {
		cfg.Metrics.Addr = runMetricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := pipeline.NewMetrics(reg)
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	p, err := pipeline.New(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithJournal(j),
		pipeline.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	feed, err := market.OpenFeed(cfg.Feed.Path, market.FeedOptions{
		From:      cfg.Feed.From,
		To:        cfg.Feed.To,
		Precision: cfg.Feed.Precision,
		Ticks:     cfg.Feed.Ticks,
	})
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer feed.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created := time.Now().UTC()
	sum, runErr := p.Run(ctx, feed)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", sum.RunID)
	fmt.Fprintf(out, "  Samples: %d\n", sum.Samples)
	fmt.Fprintf(out, "  Bars: %d\n", sum.Bars)
	fmt.Fprintf(out, "  Values: %d (math errors: %d)\n", sum.Values, sum.MathErrors)
	for _, n := range p.Nodes() {
		state := "warming"
		if n.Indicator.Ready() {
			state = "ready"
		}
		fmt.Fprintf(out, "  %-16s %14.6f  %s\n", n.Name, n.Indicator.Current().Value(), state)
	}

	if runReportPath != "" {
		err := journal.WriteRunOrg(runReportPath, journal.RunRecord{
			RunID:      sum.RunID,
			Created:    created,
			Dataset:    cfg.Feed.Path,
			Start:      sum.Start,
			End:        sum.End,
			Samples:    sum.Samples,
			Bars:       sum.Bars,
			Values:     sum.Values,
			MathErrors: sum.MathErrors,
		})
		if err != nil {
			return errors.Join(runErr, fmt.Errorf("write report: %w", err))
		}
	}
	return runErr
}
