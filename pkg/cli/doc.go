/*
Package cli provides command-line helpers for the mailexport command.

Output Formatting:

The run summary can be printed as the classic text block or as JSON:

	format, err := cli.ParseOutputFormat(flags.summaryFormat)
	if err != nil {
		return err
	}
	exporter := export.NewExporter(cfg, conn, &export.Options{
		Summary: cli.SummaryPrinter(format),
	})

Errors and Exit Codes:

Export failures are reported on stdout and never change the exit code.
Only a ConfigError (the configuration could not be loaded or validated, so
nothing was exported) or a CommandError exits non-zero; see ExitCode.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
