// Package config provides configuration management for mailexport.
//
// Configuration is loaded from an optional YAML file, a .env file in the
// working directory, and MAILEXPORT_* environment variables. Connection
// secrets are never compiled into the binary.
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file, if it exists
//  3. Environment variables, including those loaded from .env
//  4. source.password_file, when no password was given
//  5. Validation (fails fast if invalid)
//
// # Environment Variable Overrides
//
//   - MAILEXPORT_SOURCE_HOST overrides source.host
//   - MAILEXPORT_SOURCE_PASSWORD overrides source.password
//   - MAILEXPORT_EXPORT_MAILLOG_LIMIT overrides export.maillog_limit
//
// # Example Configuration
//
//	source:
//	  driver: mysql
//	  host: localhost
//	  user: exporter
//	  password_file: /run/secrets/retreehawaii_db
//	  database: retreehawaii
//	  charset: utf8mb4
//
//	export:
//	  output_dir: ./out
//	  maillog_limit: 1000
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    textfile: /var/lib/node_exporter/mailexport.prom
package config
