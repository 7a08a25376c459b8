package source

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"retreehawaii/mailexport/pkg/config"
)

// Driver names as registered with database/sql.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite3  = "sqlite3" // mattn/go-sqlite3, requires cgo
	DriverSQLite   = "sqlite"  // modernc.org/sqlite, pure Go
)

// Default server ports per driver.
const (
	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432
)

// DSN builds the driver-specific data source name for cfg.
func DSN(cfg config.SourceConfig) (string, error) {
	switch cfg.Driver {
	case DriverMySQL:
		return mysqlDSN(cfg, cfg.Password), nil
	case DriverPostgres:
		return postgresURL(cfg).String(), nil
	case DriverSQLite3, DriverSQLite:
		return sqliteDSN(cfg), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Redacted returns the DSN for cfg with the password masked, for logging.
func Redacted(cfg config.SourceConfig) string {
	switch cfg.Driver {
	case DriverMySQL:
		if cfg.Password == "" {
			return mysqlDSN(cfg, "")
		}
		return mysqlDSN(cfg, "***")
	case DriverPostgres:
		return postgresURL(cfg).Redacted()
	case DriverSQLite3, DriverSQLite:
		return sqliteDSN(cfg)
	default:
		return ""
	}
}

// Placeholder returns the bind parameter marker for the n-th (1-based)
// argument of a statement.
func Placeholder(driver string, n int) string {
	if driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func mysqlDSN(cfg config.SourceConfig, password string) string {
	port := cfg.Port
	if port == 0 {
		port = DefaultMySQLPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	// DATETIME/TIMESTAMP arrive as time.Time in UTC, i.e. the naive
	// wall-clock value stored in the table.
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = cfg.ConnectTimeout
	mc.Params = map[string]string{}
	if cfg.Charset != "" {
		mc.Params["charset"] = cfg.Charset
	}
	for k, v := range cfg.Params {
		mc.Params[k] = v
	}

	return mc.FormatDSN()
}

func postgresURL(cfg config.SourceConfig) *url.URL {
	port := cfg.Port
	if port == 0 {
		port = DefaultPostgresPort
	}

	q := url.Values{}
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	// lib/pq defaults to sslmode=require; local exports usually run without TLS.
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	if cfg.ConnectTimeout > 0 && q.Get("connect_timeout") == "" {
		secs := int(cfg.ConnectTimeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}

	var user *url.Userinfo
	switch {
	case cfg.User != "" && cfg.Password != "":
		user = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		user = url.User(cfg.User)
	}

	return &url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
}

func sqliteDSN(cfg config.SourceConfig) string {
	if len(cfg.Params) == 0 {
		return cfg.Path
	}

	q := url.Values{}
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	return "file:" + cfg.Path + "?" + q.Encode()
}
