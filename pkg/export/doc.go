// Package export writes the retreehawaii templates and maillog tables to
// JSON files.
//
// # Jobs
//
// Each table export is a Job: a fixed statement, the fields rendered as
// ISO-8601 text, and an output file.
//
//	templates  SELECT * FROM templates ORDER BY id           created
//	maillog    SELECT * FROM maillog ORDER BY sent DESC LIMIT ?   sent, opened
//
// The maillog limit is bound as a query parameter and defaults to 1000.
//
// # Error handling
//
// An export never returns an error to its caller. Connection, query and
// serialization failures (ConnectionError, QueryError, SerializationError)
// are logged, printed as "Error exporting <job>: <reason>", counted in
// the metrics and reported in Result.Err with an empty record set. Files
// are written through a temporary file and a rename, so a failed export
// leaves any earlier output untouched.
//
// # Usage
//
//	e := export.NewExporter(cfg, source.NewConnector(cfg.Source, logger), &export.Options{
//	    Logger:  logger,
//	    Metrics: export.NewMetrics(&cfg.Telemetry.Metrics, nil),
//	})
//	summary := e.Run(ctx)
package export
