package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"retreehawaii/mailexport/pkg/cli"
	"retreehawaii/mailexport/pkg/source"
	"retreehawaii/mailexport/pkg/telemetry/health"
)

var checkFlags struct {
	offline bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and run preflight checks",
	Long: `Load and validate the configuration, then check that the templates and
maillog tables can be queried and that the output directory is
writable. Nothing is exported. Unlike the export commands, check exits
non-zero when a check fails.

Examples:
  # Validate config, connect and check the output directory
  mailexport check

  # Skip the database
  mailexport check --offline`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkFlags.offline, "offline", false, "skip the database check")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	cfg := currentConfig()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "✓ Configuration valid")

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	checker := health.New(cfg.Source.ConnectTimeout)
	if checkFlags.offline {
		checker.RegisterCheck("database", nil)
	} else {
		connector := source.NewConnector(cfg.Source, a.logger.Slog())
		checker.RegisterCheck("database", health.DatabaseCheck(connector, "templates", "maillog"))
	}
	checker.RegisterCheck("output_dir", health.WritableDirCheck(cfg.Export.OutputDir))
	if path := cfg.Telemetry.Metrics.Textfile; path != "" {
		checker.RegisterCheck("metrics_textfile", health.WritableDirCheck(filepath.Dir(path)))
	}

	report := checker.Run(ctx)
	for _, r := range report.Checks {
		switch r.Status {
		case health.StatusOK:
			fmt.Fprintf(out, "✓ %s\n", r.Name)
		case health.StatusSkipped:
			fmt.Fprintf(out, "- %s (skipped)\n", r.Name)
		default:
			fmt.Fprintf(out, "✗ %s: %s\n", r.Name, r.Message)
		}
	}

	if !report.OK() {
		return cli.NewCommandError(cmd.Name(), errors.New("preflight checks failed"))
	}

	fmt.Fprintf(out, "Ready to export from %s\n", source.Redacted(cfg.Source))
	return nil
}
