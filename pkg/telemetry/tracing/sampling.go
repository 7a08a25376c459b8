package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies.
const (
	// SamplerAlways samples every run
	SamplerAlways = "always"

	// SamplerNever samples no runs
	SamplerNever = "never"

	// SamplerRatio samples a fraction of runs
	SamplerRatio = "ratio"
)

// createSampler creates a sampler for strategy. All samplers are parent
// based, so the job spans of a run share the run's decision.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler

	switch strategy {
	case SamplerAlways, "":
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("sample ratio must be between 0 and 1, got %v", ratio)
		}
		root = sdktrace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("unknown sampler %q", strategy)
	}

	return sdktrace.ParentBased(root), nil
}
