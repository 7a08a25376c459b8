package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"retreehawaii/mailexport/pkg/config"
	"retreehawaii/mailexport/pkg/record"
	"retreehawaii/mailexport/pkg/source"
	"retreehawaii/mailexport/pkg/telemetry/logging"
	"retreehawaii/mailexport/pkg/telemetry/tracing"
)

// Result is the outcome of one export. On failure Records is empty and Err
// says why; nothing is written in that case.
type Result struct {
	Job      string
	Records  []record.Record
	Path     string
	Err      error
	Duration time.Duration
}

// Count returns the number of exported records.
func (r Result) Count() int {
	return len(r.Records)
}

// OK reports whether the export succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Summary describes a full run of both exports.
type Summary struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Templates int       `json:"templates"`
	MailLog   int       `json:"maillog_entries"`
	Failed    []string  `json:"failed,omitempty"`

	Results []Result `json:"-"`
}

// SummaryPrinter writes the summary of a run.
type SummaryPrinter func(w io.Writer, s Summary) error

// String returns the plain-text summary block, starting with a blank line.
func (s Summary) String() string {
	return fmt.Sprintf("\nSummary:\nTemplates: %d\nMaillog entries: %d", s.Templates, s.MailLog)
}

// PrintSummary writes the plain-text summary block.
func PrintSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintln(w, s)
	return err
}

// Options configures an Exporter. The zero value is usable.
type Options struct {
	// Logger receives structured logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records export metrics. Nil disables metrics.
	Metrics *Metrics

	// Tracer records a span per run and per export. Defaults to a noop
	// tracer.
	Tracer *tracing.Tracer

	// Stdout receives progress and summary lines. Defaults to os.Stdout.
	Stdout io.Writer

	// Summary prints the summary block at the end of Run. Defaults to
	// PrintSummary.
	Summary SummaryPrinter
}

// Exporter exports the templates and maillog tables to JSON files.
//
// Every export opens its own connection through the Opener and closes it
// before returning. Failures never escape an export: they are logged,
// printed and reported in the Result.
type Exporter struct {
	cfg     *config.Config
	opener  source.Opener
	logger  *slog.Logger
	metrics *Metrics
	tracer  *tracing.Tracer
	out     io.Writer
	summary SummaryPrinter
}

// NewExporter creates an Exporter reading through opener and writing to
// cfg.Export.OutputDir.
func NewExporter(cfg *config.Config, opener source.Opener, opts *Options) *Exporter {
	if opts == nil {
		opts = &Options{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	summary := opts.Summary
	if summary == nil {
		summary = PrintSummary
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Noop()
	}

	return &Exporter{
		cfg:     cfg,
		opener:  opener,
		logger:  logger.With("component", "export.exporter"),
		metrics: opts.Metrics,
		tracer:  tracer,
		out:     out,
		summary: summary,
	}
}

// ExportTemplates exports the whole templates table, ordered by id, with
// created rendered as ISO-8601.
func (e *Exporter) ExportTemplates(ctx context.Context) Result {
	return e.Export(ctx, TemplatesJob(e.cfg))
}

// ExportMailLog exports the newest limit maillog rows, ordered by sent
// descending, with sent and opened rendered as ISO-8601. A limit of zero
// or less selects the configured default.
func (e *Exporter) ExportMailLog(ctx context.Context, limit int) Result {
	return e.Export(ctx, MailLogJob(e.cfg, limit))
}

// Export runs job and writes its file. It prints one line to stdout: the
// count on success, the reason on failure.
func (e *Exporter) Export(ctx context.Context, job Job) Result {
	start := time.Now()
	ctx = logging.WithJob(withRunID(ctx), job.Name)
	logger := e.logger.With(logging.ContextFields(ctx)...)
	path := filepath.Join(e.cfg.Export.OutputDir, job.File)

	ctx, span := e.tracer.Start(ctx, "export."+job.Name,
		attribute.String("run_id", logging.GetRunID(ctx)),
		attribute.String("db.system", e.cfg.Source.Driver),
		attribute.String("db.statement", job.Query),
		attribute.String("file", path),
	)
	defer span.End()

	logger.Debug("export started", "query", job.Query, "file", path)

	records, err := e.export(ctx, job, path)
	duration := time.Since(start)
	tracing.SetStatus(span, err)

	if err != nil {
		kind := ErrorKind(err)
		logger.Error("export failed",
			"kind", kind,
			"error", err,
			"duration", duration,
		)
		fmt.Fprintf(e.out, "Error exporting %s: %v\n", job.Name, err)
		e.metrics.RecordFailure(job.Name, kind, duration)

		return Result{
			Job:      job.Name,
			Records:  []record.Record{},
			Err:      err,
			Duration: duration,
		}
	}

	logger.Info("export completed",
		"rows", len(records),
		"file", path,
		"duration", duration,
	)
	span.SetAttributes(attribute.Int("rows", len(records)))
	fmt.Fprintf(e.out, "Exported %d %s to %s\n", len(records), job.Label, path)
	e.metrics.RecordSuccess(job.Name, len(records), duration)

	return Result{
		Job:      job.Name,
		Records:  records,
		Path:     path,
		Duration: duration,
	}
}

// export opens a scoped connection, reads the job's rows and writes them.
// The connection is closed on every path.
func (e *Exporter) export(ctx context.Context, job Job, path string) ([]record.Record, error) {
	db, err := e.opener.Open(ctx)
	if err != nil {
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			err = source.NewConnectionError(e.cfg.Source.Driver, "", err)
		}
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, job.Query, job.Args...)
	if err != nil {
		return nil, NewQueryError(job.Name, job.Query, err)
	}
	defer rows.Close()

	records, err := record.ScanRows(rows, job.Max)
	if err != nil {
		return nil, NewQueryError(job.Name, job.Query, err)
	}

	for i := range records {
		record.NormalizeTemporal(&records[i], job.TemporalFields...)
	}

	if err := WriteFile(path, records); err != nil {
		return nil, err
	}

	return records, nil
}

// Run exports templates and then the maillog with the configured limit and
// prints the summary. A failure in one export does not stop the other.
func (e *Exporter) Run(ctx context.Context) Summary {
	ctx = withRunID(ctx)
	s := Summary{
		RunID:     logging.GetRunID(ctx),
		StartedAt: time.Now().UTC(),
	}

	ctx, span := e.tracer.Start(ctx, "export.run", attribute.String("run_id", s.RunID))
	defer span.End()

	fmt.Fprintf(e.out, "Exporting data from %s database...\n", e.cfg.Source.Database)

	templates := e.ExportTemplates(ctx)
	maillog := e.ExportMailLog(ctx, 0)

	s.Templates = templates.Count()
	s.MailLog = maillog.Count()
	s.Results = []Result{templates, maillog}
	for _, r := range s.Results {
		if !r.OK() {
			s.Failed = append(s.Failed, r.Job)
		}
	}
	span.SetAttributes(
		attribute.Int("templates", s.Templates),
		attribute.Int("maillog_entries", s.MailLog),
		attribute.StringSlice("failed", s.Failed),
	)

	if err := e.summary(e.out, s); err != nil {
		e.logger.Warn("failed to print summary", "error", err)
	}

	if path := e.cfg.Telemetry.Metrics.Textfile; path != "" {
		if err := e.metrics.WriteTextfile(path); err != nil {
			e.logger.Warn("failed to write metrics textfile", "path", path, "error", err)
		}
	}

	return s
}

// withRunID returns ctx with a fresh run ID unless it already has one.
func withRunID(ctx context.Context) context.Context {
	if logging.GetRunID(ctx) != "" {
		return ctx
	}
	return logging.WithRunID(ctx, uuid.NewString())
}
