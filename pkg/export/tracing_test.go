package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"retreehawaii/mailexport/pkg/config"
	"retreehawaii/mailexport/pkg/telemetry/tracing"
)

func TestRun_RecordsSpans(t *testing.T) {
	cfg := testConfig(t)
	spans := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Enabled: true, ServiceName: "mailexport"}, "test", spans)
	require.NoError(t, err)
	defer tracer.Shutdown(context.Background())

	opener := mockOpener(t,
		func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(TemplatesQuery).WillReturnError(errors.New("Table 'retreehawaii.templates' doesn't exist"))
			mock.ExpectClose()
		},
		func(mock sqlmock.Sqlmock) {
			rows := sqlmock.NewRows([]string{"id", "sent"}).AddRow(int64(1), "2024-05-01 08:00:00")
			mock.ExpectQuery("SELECT * FROM maillog ORDER BY sent DESC LIMIT ?").WithArgs(int64(1000)).WillReturnRows(rows)
			mock.ExpectClose()
		},
	)

	e := NewExporter(cfg, opener, &Options{Logger: quietLogger(), Stdout: io.Discard, Tracer: tracer})
	summary := e.Run(context.Background())

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans.GetSpans() {
		byName[s.Name] = s
	}
	require.Len(t, byName, 3)

	run := byName["export.run"]
	templates := byName["export.templates"]
	maillog := byName["export.maillog"]

	assert.Equal(t, run.SpanContext.TraceID(), templates.SpanContext.TraceID())
	assert.Equal(t, run.SpanContext.SpanID(), maillog.Parent.SpanID())
	assert.Equal(t, codes.Error, templates.Status.Code)
	assert.Equal(t, codes.Ok, maillog.Status.Code)

	attrs := map[string]any{}
	for _, kv := range run.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, summary.RunID, attrs["run_id"])
	assert.Equal(t, int64(1), attrs["maillog_entries"])
	assert.Equal(t, []string{JobTemplates}, attrs["failed"])
}
