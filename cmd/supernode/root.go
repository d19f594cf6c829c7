package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-supernode/pkg/config"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
	"github.com/dd0wney/cluso-supernode/pkg/metrics"
	"github.com/dd0wney/cluso-supernode/pkg/pipeline"
)

// Persistent flags shared by every subcommand
var (
	configPath      string
	dataRoot        string
	dates           []string
	workers         int
	logLevel        string
	logFormat       string
	sqlitePath      string
	metricsTextfile string
	cacheSize       int
)

// app holds what PersistentPreRunE builds for the subcommands
var app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	runner  *pipeline.Runner
}

var rootCmd = &cobra.Command{
	Use:   "supernode",
	Short: "Track graph communities over time and describe them as supernodes",
	Long: `supernode reads one community partition (and optionally one edge list)
per dated snapshot, links communities across consecutive snapshots by
chance-corrected overlap, and computes per-community descriptors for
rendering each community as a single supernode.

Flags override values from the YAML file given with --config.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&dataRoot, "root", "", "data root holding one directory per date")
	flags.StringSliceVar(&dates, "dates", nil, "dates to process (default: every directory under --root)")
	flags.IntVarP(&workers, "workers", "w", 0, "worker goroutines")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: json or text")
	flags.StringVar(&sqlitePath, "sqlite", "", "SQLite result store path")
	flags.StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	flags.IntVar(&cacheSize, "cache-size", 0, "parsed partitions kept in memory between stages")
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration, applies flag overrides and builds the runner
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Data.Root = dataRoot
	}
	if flags.Changed("dates") {
		cfg.Data.Dates = dates
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLitePath = sqlitePath
	}
	if flags.Changed("metrics-textfile") {
		cfg.Output.MetricsTextfile = metricsTextfile
	}
	if flags.Changed("cache-size") {
		cfg.Data.CacheSize = cacheSize
	}
	applyTrackFlags(cmd, cfg)
	applyDescribeFlags(cmd, cfg)
	applyDetectFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.Logging.Level), logging.Format(cfg.Logging.Format))
	logging.SetDefaultLogger(logger)

	app.cfg = cfg
	app.logger = logger
	app.metrics = metrics.DefaultRegistry()
	app.runner = pipeline.New(cfg, logger, app.metrics)
	return nil
}

// finish dumps metrics if requested and logs a failed command
func finish(err error) error {
	if err != nil {
		app.logger.Error("command failed", logging.Error(err))
	}
	if path := app.cfg.Output.MetricsTextfile; path != "" {
		app.metrics.UpdateSystemMetrics()
		if werr := app.metrics.WriteTextfile(path); werr != nil {
			app.logger.Error("failed to write metrics", logging.Path(path), logging.Error(werr))
		}
	}
	return err
}
