package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "source.driver").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// SupportedDrivers lists the accepted values for source.driver.
var SupportedDrivers = []string{"mysql", "postgres", "sqlite3", "sqlite"}

var validLevels = []string{"debug", "info", "warn", "warning", "error"}

var validFormats = []string{"json", "text", "console"}

var validSamplers = []string{"always", "never", "ratio"}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateSource validates source database configuration.
func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if !contains(SupportedDrivers, cfg.Driver) {
		errs = append(errs, FieldError{
			Field:   "source.driver",
			Message: fmt.Sprintf("unsupported driver %q (supported: %s)", cfg.Driver, strings.Join(SupportedDrivers, ", ")),
		})
		return errs
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   "source.port",
			Message: "port must be between 0 and 65535",
		})
	}
	if cfg.ConnectTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "source.connect_timeout",
			Message: "connect timeout must not be negative",
		})
	}

	switch cfg.Driver {
	case "sqlite3", "sqlite":
		if cfg.Path == "" {
			errs = append(errs, FieldError{
				Field:   "source.path",
				Message: "path is required for sqlite drivers",
			})
		}
	default:
		if cfg.Host == "" {
			errs = append(errs, FieldError{
				Field:   "source.host",
				Message: "host is required",
			})
		}
		if cfg.Database == "" {
			errs = append(errs, FieldError{
				Field:   "source.database",
				Message: "database is required",
			})
		}
	}

	return errs
}

// validateExport validates output settings.
func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.MailLogLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "export.maillog_limit",
			Message: "limit must be a positive integer",
		})
	}

	files := []struct{ field, name string }{
		{"export.templates_file", cfg.TemplatesFile},
		{"export.maillog_file", cfg.MailLogFile},
	}
	for _, f := range files {
		if f.name == "" || f.name != filepath.Base(f.name) {
			errs = append(errs, FieldError{
				Field:   f.field,
				Message: "must be a plain file name without directory components",
			})
		}
	}

	if cfg.TemplatesFile != "" && cfg.TemplatesFile == cfg.MailLogFile {
		errs = append(errs, FieldError{
			Field:   "export.maillog_file",
			Message: "must differ from export.templates_file",
		})
	}

	return errs
}

// validateSchedule validates the cron expression.
func validateSchedule(cfg *ScheduleConfig) []FieldError {
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return []FieldError{{
			Field:   "schedule.cron",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		}}
	}
	return nil
}

// validateTelemetry validates logging and metrics configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !contains(validLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}
	if !contains(validFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (valid: json, text, console)", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	tr := cfg.Tracing
	if !contains(validSamplers, tr.Sampler) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (valid: always, never, ratio)", tr.Sampler),
		})
	}
	if tr.SampleRatio < 0 || tr.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0 and 1",
		})
	}
	if tr.Enabled && tr.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
