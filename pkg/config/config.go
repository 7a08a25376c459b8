package config

import "time"

// Config is the root configuration structure for mailexport.
// It contains the source database connection, the export targets,
// the optional schedule, and telemetry settings.
type Config struct {
	// Source contains the connection parameters for the database the
	// templates and maillog tables are read from.
	Source SourceConfig `yaml:"source"`

	// Export contains output locations and the maillog row limit.
	Export ExportConfig `yaml:"export"`

	// Schedule contains the cron settings used by "mailexport schedule".
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SourceConfig contains connection parameters for the source database.
// Secrets are never embedded in the binary; the password comes from the
// config file, MAILEXPORT_SOURCE_PASSWORD, or PasswordFile.
type SourceConfig struct {
	// Driver selects the database/sql driver.
	// Options: "mysql", "postgres", "sqlite3", "sqlite"
	// Default: "mysql"
	Driver string `yaml:"driver"`

	// Host is the database server host name.
	// Default: "localhost"
	Host string `yaml:"host"`

	// Port is the database server port. Zero selects the driver default
	// (3306 for mysql, 5432 for postgres).
	Port int `yaml:"port"`

	// User is the database user name.
	User string `yaml:"user"`

	// Password is the database password.
	Password string `yaml:"password"`

	// PasswordFile is a path to a file containing the password, typically a
	// mounted secret. It is read when Password is empty.
	PasswordFile string `yaml:"password_file"`

	// Database is the schema / database name.
	// Default: "retreehawaii"
	Database string `yaml:"database"`

	// Charset is the connection character set (mysql only).
	// Default: "utf8mb4"
	Charset string `yaml:"charset"`

	// Path is the database file for the sqlite drivers.
	Path string `yaml:"path"`

	// Params are extra driver-specific DSN parameters (e.g. sslmode).
	Params map[string]string `yaml:"params"`

	// ConnectTimeout bounds dialing the server. Zero leaves the driver
	// default in place.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ExportConfig contains settings for the JSON output files.
type ExportConfig struct {
	// OutputDir is the directory the JSON files are written to.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// TemplatesFile is the output file name for the templates export.
	// Default: "retreehawaii_templates.json"
	TemplatesFile string `yaml:"templates_file"`

	// MailLogFile is the output file name for the maillog export.
	// Default: "retreehawaii_maillog.json"
	MailLogFile string `yaml:"maillog_file"`

	// MailLogLimit bounds the number of maillog rows exported.
	// Default: 1000
	MailLogLimit int `yaml:"maillog_limit"`
}

// ScheduleConfig contains settings for repeated export runs.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression.
	// Default: "0 3 * * *"
	Cron string `yaml:"cron"`

	// Watch reloads the configuration file between runs when it changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables redaction of passwords, DSN credentials and
	// e-mail addresses in log fields.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether export metrics are collected.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "mailexport"
	Namespace string `yaml:"namespace"`

	// Textfile is the path the collected metrics are written to after each
	// run, in Prometheus text format. Empty disables the file.
	Textfile string `yaml:"textfile"`
}

// TracingConfig contains OpenTelemetry tracing configuration. Each run is
// one trace with a span per table export.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of runs to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export of spans to the collector.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service.name resource attribute.
	// Default: "mailexport"
	ServiceName string `yaml:"service_name"`
}
