package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"retreehawaii/mailexport/pkg/cli"
	"retreehawaii/mailexport/pkg/config"
	"retreehawaii/mailexport/pkg/export"
	"retreehawaii/mailexport/pkg/export/schedule"
)

var scheduleFlags struct {
	cron  string
	watch bool
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Repeat the export on a cron schedule",
	Long: `Run both exports repeatedly on a cron schedule until interrupted.

The schedule is a standard five-field cron expression or a descriptor
such as "@every 6h". With --watch the config file is reloaded when it
changes; the next run uses the new settings and a changed schedule takes
effect immediately.

Examples:
  # Daily at 3 AM (schedule.cron default)
  mailexport schedule

  # Every six hours, following config edits
  mailexport schedule --cron "0 */6 * * *" --watch`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleFlags.cron, "cron", "", "override schedule.cron")
	scheduleCmd.Flags().BoolVar(&scheduleFlags.watch, "watch", false, "reload the config file when it changes")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	runner := schedule.RunnerFunc(func(ctx context.Context) export.Summary {
		return a.exporter(currentConfig()).Run(ctx)
	})
	scheduler := schedule.NewScheduler(runner, a.logger.Slog())

	if err := scheduler.Start(ctx, cronSpec(currentConfig())); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	defer scheduler.Stop()

	if next := scheduler.NextRun(); next != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Next export at %s (schedule %q)\n", next.Format("2006-01-02 15:04:05 MST"), scheduler.Spec())
	}

	if scheduleFlags.watch || currentConfig().Schedule.Watch {
		watcher, err := config.NewWatcher(cfgFile, a.logger.Slog())
		if err != nil {
			return cli.NewCommandError(cmd.Name(), err)
		}
		go func() {
			err := watcher.Watch(ctx, func() {
				if err := config.Reload(); err != nil {
					a.logger.Warn("configuration reload failed, keeping previous settings", "error", err)
					return
				}
				if err := scheduler.Reschedule(cronSpec(currentConfig())); err != nil {
					a.logger.Warn("schedule not changed", "error", err)
				}
				a.logger.Info("configuration reloaded", "schedule", scheduler.Spec())
			})
			if err != nil {
				a.logger.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	<-ctx.Done()
	return nil
}

// cronSpec returns the --cron flag if set, otherwise the configured schedule.
func cronSpec(cfg *config.Config) string {
	if scheduleFlags.cron != "" {
		return scheduleFlags.cron
	}
	return cfg.Schedule.Cron
}
