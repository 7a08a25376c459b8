package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"retreehawaii/mailexport/pkg/cli"
	"retreehawaii/mailexport/pkg/config"
	"retreehawaii/mailexport/pkg/export"
	"retreehawaii/mailexport/pkg/source"
	"retreehawaii/mailexport/pkg/telemetry/logging"
	"retreehawaii/mailexport/pkg/telemetry/tracing"
)

var (
	cfgFile       string
	outputDir     string
	verbose       bool
	summaryFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mailexport",
	Short: "Export the retreehawaii templates and maillog tables to JSON",
	Long: `mailexport reads the templates table and the most recent maillog
entries from the retreehawaii database and writes them to
retreehawaii_templates.json and retreehawaii_maillog.json.

Connection settings come from the config file, a .env file or
MAILEXPORT_* environment variables. Export failures are reported but
never change the exit status.

Examples:
  # Export both tables with defaults
  mailexport

  # Write the files somewhere else
  mailexport --output-dir /var/backups/retreehawaii

  # Machine-readable summary
  mailexport --summary-format json`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAll,
}

// Execute runs the root command and exits with the mapped status code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "mailexport.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "override the output directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&summaryFormat, "summary-format", "text", "summary format (text, json)")
}

// app holds what every export command needs after startup.
type app struct {
	logger  *logging.Logger
	metrics *export.Metrics
	tracer  *tracing.Tracer
	printer export.SummaryPrinter
	stdout  io.Writer
}

// setup loads the configuration and builds the logger, metrics and
// tracer. Callers must call close when done.
func setup(cmd *cobra.Command) (*app, error) {
	format, err := cli.ParseOutputFormat(summaryFormat)
	if err != nil {
		return nil, cli.NewCommandError(cmd.Name(), err)
	}

	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	cfg := currentConfig()

	logCfg := logging.ConfigFrom(cfg.Telemetry.Logging)
	logCfg.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	slog.SetDefault(logger.Slog())

	var metrics *export.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		metrics = export.NewMetrics(&cfg.Telemetry.Metrics, nil)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}

	logger.Debug("configuration loaded",
		"config", cfgFile,
		"driver", cfg.Source.Driver,
		"dsn", source.Redacted(cfg.Source),
		"output_dir", cfg.Export.OutputDir,
	)

	return &app{
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		printer: cli.SummaryPrinter(format),
		stdout:  cmd.OutOrStdout(),
	}, nil
}

// currentConfig returns a copy of the process-wide configuration with the
// command-line overrides applied. Reloads replace the stored configuration,
// so the overrides are applied on every call.
func currentConfig() *config.Config {
	cfg := *config.MustGetConfig()
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return &cfg
}

// exporter builds an Exporter for cfg.
func (a *app) exporter(cfg *config.Config) *export.Exporter {
	return export.NewExporter(cfg, source.NewConnector(cfg.Source, a.logger.Slog()), &export.Options{
		Logger:  a.logger.Slog(),
		Metrics: a.metrics,
		Tracer:  a.tracer,
		Stdout:  a.stdout,
		Summary: a.printer,
	})
}

// close flushes pending spans.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

// writeMetrics writes the metrics textfile after a single-table export.
// Run writes it itself.
func (a *app) writeMetrics(cfg *config.Config) {
	path := cfg.Telemetry.Metrics.Textfile
	if path == "" {
		return
	}
	if err := a.metrics.WriteTextfile(path); err != nil {
		a.logger.Warn("failed to write metrics textfile", "path", path, "error", err)
	}
}

func runAll(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	a.exporter(currentConfig()).Run(ctx)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
