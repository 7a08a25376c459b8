package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver (cgo)
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)

	"retreehawaii/mailexport/pkg/config"
)

// Opener opens a scoped database handle. Callers own the returned handle
// and must close it.
type Opener interface {
	Open(ctx context.Context) (*sql.DB, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context) (*sql.DB, error)

// Open calls f(ctx).
func (f OpenerFunc) Open(ctx context.Context) (*sql.DB, error) {
	return f(ctx)
}

// Connector opens single-connection handles to the source database.
type Connector struct {
	cfg    config.SourceConfig
	logger *slog.Logger
}

// NewConnector creates a Connector for cfg.
func NewConnector(cfg config.SourceConfig, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		cfg:    cfg,
		logger: logger.With("component", "source.connector"),
	}
}

// Driver returns the configured driver name.
func (c *Connector) Driver() string {
	return c.cfg.Driver
}

// Open opens a handle limited to one connection and verifies it with a
// ping. Nothing is pooled across calls: every export gets its own handle.
func (c *Connector) Open(ctx context.Context) (*sql.DB, error) {
	dsn, err := DSN(c.cfg)
	if err != nil {
		return nil, NewConnectionError(c.cfg.Driver, "", err)
	}
	target := Redacted(c.cfg)

	db, err := sql.Open(c.cfg.Driver, dsn)
	if err != nil {
		return nil, NewConnectionError(c.cfg.Driver, target, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewConnectionError(c.cfg.Driver, target, err)
	}

	c.logger.Debug("database connection opened", "driver", c.cfg.Driver, "dsn", target)
	return db, nil
}

// ConnectionError reports a failure to open or reach the source database.
type ConnectionError struct {
	Driver string // database/sql driver name
	Target string // redacted DSN, may be empty
	Cause  error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("connection error [driver=%s, target=%s]: %v", e.Driver, e.Target, e.Cause)
	}
	return fmt.Sprintf("connection error [driver=%s]: %v", e.Driver, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(driver, target string, cause error) *ConnectionError {
	return &ConnectionError{
		Driver: driver,
		Target: target,
		Cause:  cause,
	}
}
