package config

import "time"

// Default values for configuration fields.
const (
	// Source defaults
	DefaultSourceDriver   = "mysql"
	DefaultSourceHost     = "localhost"
	DefaultSourceDatabase = "retreehawaii"
	DefaultSourceCharset  = "utf8mb4"

	// Export defaults
	DefaultOutputDir     = "."
	DefaultTemplatesFile = "retreehawaii_templates.json"
	DefaultMailLogFile   = "retreehawaii_maillog.json"
	DefaultMailLogLimit  = 1000

	// Schedule defaults
	DefaultScheduleCron  = "0 3 * * *"
	DefaultScheduleWatch = false

	// Telemetry defaults
	DefaultLoggingLevel     = "warn"
	DefaultLoggingFormat    = "text"
	DefaultLoggingRedactPII = true
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "mailexport"
	DefaultTracingSampler   = "always"
	DefaultTracingRatio     = 1.0
	DefaultTracingTimeout   = 10 * time.Second
	DefaultTracingService   = "mailexport"
)

// Default returns a configuration populated with default values.
// LoadConfig decodes YAML on top of it, so boolean fields left out of the
// file keep their defaults while an explicit false is respected.
func Default() *Config {
	cfg := &Config{
		Schedule: ScheduleConfig{
			Watch: DefaultScheduleWatch,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				RedactPII: DefaultLoggingRedactPII,
			},
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued string and numeric fields with their
// defaults. It does not touch boolean fields; see Default.
func ApplyDefaults(cfg *Config) {
	// Source defaults
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = DefaultSourceDriver
	}
	if cfg.Source.Host == "" {
		cfg.Source.Host = DefaultSourceHost
	}
	if cfg.Source.Database == "" {
		cfg.Source.Database = DefaultSourceDatabase
	}
	if cfg.Source.Charset == "" {
		cfg.Source.Charset = DefaultSourceCharset
	}

	// Export defaults
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = DefaultOutputDir
	}
	if cfg.Export.TemplatesFile == "" {
		cfg.Export.TemplatesFile = DefaultTemplatesFile
	}
	if cfg.Export.MailLogFile == "" {
		cfg.Export.MailLogFile = DefaultMailLogFile
	}
	if cfg.Export.MailLogLimit == 0 {
		cfg.Export.MailLogLimit = DefaultMailLogLimit
	}

	// Schedule defaults
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultScheduleCron
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
}
