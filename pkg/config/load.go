package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix shared by all environment variable overrides.
const EnvPrefix = "MAILEXPORT_"

// LoadConfig loads configuration from the YAML file at path, then applies
// the .env file, environment variable overrides and the password file, and
// validates the result. The file must exist; a missing file is reported
// with fs.ErrNotExist in the error chain.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return finish(cfg)
}

// LoadConfigWithEnvOverrides is LoadConfig for startup, where the config
// file is optional. Environment variables follow the naming convention
// MAILEXPORT_SECTION_FIELD (e.g., MAILEXPORT_SOURCE_HOST) and always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load a .env file from the working directory, if present
// 2. Load YAML from file (a missing file leaves the defaults in place)
// 3. Apply default values
// 4. Apply environment variable overrides
// 5. Resolve the password file
// 6. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadConfig(path)
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	return finish(Default())
}

// finish applies the environment to cfg and validates it.
func finish(cfg *Config) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if err := resolvePasswordFile(&cfg.Source); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// parse decodes YAML on top of the defaults.
func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// resolvePasswordFile reads the source password from PasswordFile when no
// password was supplied directly.
func resolvePasswordFile(src *SourceConfig) error {
	if src.Password != "" || src.PasswordFile == "" {
		return nil
	}
	data, err := os.ReadFile(src.PasswordFile)
	if err != nil {
		return fmt.Errorf("failed to read password file %q: %w", src.PasswordFile, err)
	}
	src.Password = strings.TrimRight(string(data), "\r\n")
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format MAILEXPORT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Source overrides
	if val := os.Getenv(EnvPrefix + "SOURCE_DRIVER"); val != "" {
		cfg.Source.Driver = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_HOST"); val != "" {
		cfg.Source.Host = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Source.Port = i
		}
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_USER"); val != "" {
		cfg.Source.User = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_PASSWORD"); val != "" {
		cfg.Source.Password = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_PASSWORD_FILE"); val != "" {
		cfg.Source.PasswordFile = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_DATABASE"); val != "" {
		cfg.Source.Database = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_CHARSET"); val != "" {
		cfg.Source.Charset = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_PATH"); val != "" {
		cfg.Source.Path = val
	}
	if val := os.Getenv(EnvPrefix + "SOURCE_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Source.ConnectTimeout = d
		}
	}

	// Export overrides
	if val := os.Getenv(EnvPrefix + "EXPORT_OUTPUT_DIR"); val != "" {
		cfg.Export.OutputDir = val
	}
	if val := os.Getenv(EnvPrefix + "EXPORT_TEMPLATES_FILE"); val != "" {
		cfg.Export.TemplatesFile = val
	}
	if val := os.Getenv(EnvPrefix + "EXPORT_MAILLOG_FILE"); val != "" {
		cfg.Export.MailLogFile = val
	}
	if val := os.Getenv(EnvPrefix + "EXPORT_MAILLOG_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Export.MailLogLimit = i
		}
	}

	// Schedule overrides
	if val := os.Getenv(EnvPrefix + "SCHEDULE_CRON"); val != "" {
		cfg.Schedule.Cron = val
	}
	if val := os.Getenv(EnvPrefix + "SCHEDULE_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schedule.Watch = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_REDACT_PII"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.RedactPII = b
		}
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_TEXTFILE"); val != "" {
		cfg.Telemetry.Metrics.Textfile = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_INSECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Insecure = b
		}
	}
}
