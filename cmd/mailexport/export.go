package main

import (
	"github.com/spf13/cobra"

	"retreehawaii/mailexport/pkg/cli"
)

var maillogLimit int

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Export only the templates table",
	Long: `Export the whole templates table, ordered by id, to the templates
output file. The created column is written as ISO-8601 text.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

var maillogCmd = &cobra.Command{
	Use:   "maillog",
	Short: "Export the most recent maillog entries",
	Long: `Export the newest maillog entries, ordered by sent descending, to the
maillog output file. The sent and opened columns are written as ISO-8601
text.

Examples:
  # Default limit (export.maillog_limit, 1000 unless configured)
  mailexport maillog

  # Only the latest 50 entries
  mailexport maillog --limit 50`,
	Args: cobra.NoArgs,
	RunE: runMailLog,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(maillogCmd)

	maillogCmd.Flags().IntVarP(&maillogLimit, "limit", "n", 0, "maximum number of entries (0 uses the configured limit)")
}

func runTemplates(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	cfg := currentConfig()
	a.exporter(cfg).ExportTemplates(ctx)
	a.writeMetrics(cfg)
	return nil
}

func runMailLog(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	cfg := currentConfig()
	a.exporter(cfg).ExportMailLog(ctx, maillogLimit)
	a.writeMetrics(cfg)
	return nil
}
