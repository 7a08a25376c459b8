package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailexport.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
source:
  driver: postgres
  host: db.internal
  port: 5433
  user: exporter
  password: secret
  database: retreehawaii
  params:
    sslmode: disable
  connect_timeout: 5s

export:
  output_dir: ./out
  maillog_limit: 250

telemetry:
  logging:
    level: debug
    format: json
    redact_pii: false
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Driver != "postgres" {
		t.Errorf("expected driver %q, got %q", "postgres", cfg.Source.Driver)
	}
	if cfg.Source.Port != 5433 {
		t.Errorf("expected port %d, got %d", 5433, cfg.Source.Port)
	}
	if cfg.Source.Params["sslmode"] != "disable" {
		t.Errorf("expected sslmode param %q, got %q", "disable", cfg.Source.Params["sslmode"])
	}
	if cfg.Source.ConnectTimeout != 5*time.Second {
		t.Errorf("expected connect timeout %v, got %v", 5*time.Second, cfg.Source.ConnectTimeout)
	}
	if cfg.Export.MailLogLimit != 250 {
		t.Errorf("expected maillog limit %d, got %d", 250, cfg.Export.MailLogLimit)
	}
	if cfg.Export.TemplatesFile != DefaultTemplatesFile {
		t.Errorf("expected default templates file %q, got %q", DefaultTemplatesFile, cfg.Export.TemplatesFile)
	}
	if cfg.Telemetry.Logging.RedactPII {
		t.Error("explicit redact_pii: false should be respected")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled: false should be respected")
	}
}

func TestLoadConfig_DefaultsForOmittedBools(t *testing.T) {
	path := writeConfig(t, "source:\n  user: exporter\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Telemetry.Logging.RedactPII {
		t.Error("redact_pii should default to true")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics.enabled should default to true")
	}
	if cfg.Source.Charset != "utf8mb4" {
		t.Errorf("expected charset %q, got %q", "utf8mb4", cfg.Source.Charset)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadConfig_AppliesEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"SOURCE_HOST", "env.example")
	path := writeConfig(t, "source:\n  host: file.example\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Source.Host != "env.example" {
		t.Errorf("expected host %q, got %q", "env.example", cfg.Source.Host)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "source: [unclosed")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "source:\n  driver: oracle\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Errors[0].Field != "source.driver" {
		t.Errorf("expected source.driver error, got %q", verr.Errors[0].Field)
	}
}

func TestLoadConfigWithEnvOverrides_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MAILEXPORT_SOURCE_USER", "exporter")

	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Driver != DefaultSourceDriver {
		t.Errorf("expected driver %q, got %q", DefaultSourceDriver, cfg.Source.Driver)
	}
	if cfg.Source.User != "exporter" {
		t.Errorf("expected user from env, got %q", cfg.Source.User)
	}
	if cfg.Export.MailLogLimit != DefaultMailLogLimit {
		t.Errorf("expected limit %d, got %d", DefaultMailLogLimit, cfg.Export.MailLogLimit)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
source:
  host: file-host
  password: file-password
export:
  maillog_limit: 10
`)

	t.Setenv("MAILEXPORT_SOURCE_HOST", "env-host")
	t.Setenv("MAILEXPORT_SOURCE_PASSWORD", "env-password")
	t.Setenv("MAILEXPORT_EXPORT_MAILLOG_LIMIT", "42")
	t.Setenv("MAILEXPORT_SOURCE_CONNECT_TIMEOUT", "3s")
	t.Setenv("MAILEXPORT_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("MAILEXPORT_TELEMETRY_TRACING_ENABLED", "true")
	t.Setenv("MAILEXPORT_TELEMETRY_TRACING_ENDPOINT", "otel-collector:4317")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Host != "env-host" {
		t.Errorf("expected host %q, got %q", "env-host", cfg.Source.Host)
	}
	if cfg.Source.Password != "env-password" {
		t.Errorf("expected password from env")
	}
	if cfg.Export.MailLogLimit != 42 {
		t.Errorf("expected limit %d, got %d", 42, cfg.Export.MailLogLimit)
	}
	if cfg.Source.ConnectTimeout != 3*time.Second {
		t.Errorf("expected connect timeout %v, got %v", 3*time.Second, cfg.Source.ConnectTimeout)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled by env")
	}
	if !cfg.Telemetry.Tracing.Enabled || cfg.Telemetry.Tracing.Endpoint != "otel-collector:4317" {
		t.Errorf("expected tracing enabled with env endpoint, got %+v", cfg.Telemetry.Tracing)
	}
	if cfg.Telemetry.Tracing.ServiceName != DefaultTracingService {
		t.Errorf("expected default service name, got %q", cfg.Telemetry.Tracing.ServiceName)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValueIgnored(t *testing.T) {
	t.Setenv("MAILEXPORT_EXPORT_MAILLOG_LIMIT", "lots")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Export.MailLogLimit != DefaultMailLogLimit {
		t.Errorf("expected default limit, got %d", cfg.Export.MailLogLimit)
	}
}

func TestLoadConfigWithEnvOverrides_PasswordFile(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "db_password")
	if err := os.WriteFile(secret, []byte("pa$$w0rd&x9\n"), 0600); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}
	t.Setenv("MAILEXPORT_SOURCE_PASSWORD_FILE", secret)

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Password != "pa$$w0rd&x9" {
		t.Errorf("expected password read from file without trailing newline, got %q", cfg.Source.Password)
	}
}

func TestLoadConfigWithEnvOverrides_PasswordFileMissing(t *testing.T) {
	t.Setenv("MAILEXPORT_SOURCE_PASSWORD_FILE", filepath.Join(t.TempDir(), "nope"))

	if _, err := LoadConfigWithEnvOverrides(""); err == nil {
		t.Fatal("expected error for unreadable password file")
	}
}

func TestLoadConfigWithEnvOverrides_PasswordTakesPrecedenceOverFile(t *testing.T) {
	t.Setenv("MAILEXPORT_SOURCE_PASSWORD", "direct")
	t.Setenv("MAILEXPORT_SOURCE_PASSWORD_FILE", filepath.Join(t.TempDir(), "nope"))

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Password != "direct" {
		t.Errorf("expected direct password, got %q", cfg.Source.Password)
	}
}
