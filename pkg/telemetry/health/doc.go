// Package health runs preflight checks before an export.
//
// A Checker holds named checks and runs them in registration order, each
// with its own timeout. The "mailexport check" command registers a
// database check for the templates and maillog tables and a writability
// check for the output directory:
//
//	checker := health.New(0)
//	checker.RegisterCheck("database", health.DatabaseCheck(connector, "templates", "maillog"))
//	checker.RegisterCheck("output_dir", health.WritableDirCheck(cfg.Export.OutputDir))
//
//	report := checker.Run(ctx)
//	if !report.OK() {
//	    ...
//	}
//
// A check registered with a nil function is reported as skipped.
package health
