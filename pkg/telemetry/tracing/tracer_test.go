package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"retreehawaii/mailexport/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:   "disabled tracing",
			config: &config.TracingConfig{Enabled: false, ServiceName: "mailexport"},
		},
		{
			name: "enabled otlp",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				ServiceName: "mailexport",
			},
			wantEnabled: true,
		},
		{
			name: "bad sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     "sometimes",
				Endpoint:    "localhost:4317",
				ServiceName: "mailexport",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestNoop(t *testing.T) {
	tracer := Noop()

	ctx, span := tracer.Start(context.Background(), "export.run")
	span.End()

	if tracer.Enabled() {
		t.Error("noop tracer should not be enabled")
	}
	if id := TraceID(ctx); id != "" {
		t.Errorf("TraceID() = %q, want empty", id)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func newTestTracer(t *testing.T, sampler string, ratio float64) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	cfg := &config.TracingConfig{Enabled: true, Sampler: sampler, SampleRatio: ratio, ServiceName: "mailexport"}
	tracer, err := newTracer(cfg, "test", sdktrace.WithSyncer(exporter))
	if err != nil {
		t.Fatalf("newTracer() error = %v", err)
	}
	t.Cleanup(func() { tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestTracer_SpansAndStatus(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways, 1)

	ctx, run := tracer.Start(context.Background(), "export.run", attribute.String("run_id", "abc"))
	if TraceID(ctx) == "" {
		t.Fatal("TraceID() should be set inside a sampled span")
	}

	_, ok := tracer.Start(ctx, "export.templates")
	SetStatus(ok, nil)
	ok.End()

	_, failed := tracer.Start(ctx, "export.maillog")
	SetStatus(failed, errors.New("table maillog doesn't exist"))
	failed.End()
	run.End()

	spans := exporter.GetSpans()
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}

	root := byName["export.run"]
	for _, name := range []string{"export.templates", "export.maillog"} {
		child := byName[name]
		if child.Parent.SpanID() != root.SpanContext.SpanID() {
			t.Errorf("%s is not a child of export.run", name)
		}
	}

	if got := byName["export.templates"].Status.Code; got != codes.Ok {
		t.Errorf("templates status = %v, want Ok", got)
	}
	maillog := byName["export.maillog"]
	if maillog.Status.Code != codes.Error || maillog.Status.Description != "table maillog doesn't exist" {
		t.Errorf("maillog status = %+v", maillog.Status)
	}
	if len(maillog.Events) == 0 {
		t.Error("error should be recorded as a span event")
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{"", 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.25, false},
		{SamplerRatio, 2, true},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			_, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
			}
		})
	}
}

func TestNeverSampler_RecordsNothing(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever, 0)

	_, span := tracer.Start(context.Background(), "export.run")
	span.End()

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("got %d spans, want 0", n)
	}
}
