// Package schedule repeats full export runs on a cron schedule.
//
//	s := schedule.NewScheduler(exporter, logger)
//	if err := s.Start(ctx, "0 3 * * *"); err != nil {
//	    return err
//	}
//	<-ctx.Done()
//
// Ticks that fire while a run is still in progress are skipped, and the
// schedule can be replaced at runtime with Reschedule.
package schedule
