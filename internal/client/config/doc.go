// Package config loads runtime configuration for the duabook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or
//     -config. TOML and JSON are supported, picked by file extension.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path to the local SQLite database file
//	-i int      online status check interval (seconds)
//
// # File schema
//
// The file loader uses timex.Duration for intervals, so values can be
// strings like "3s" (or, in JSON, integer nanoseconds):
//
//	server_base_url = "http://127.0.0.1:8080"
//	database_path = "duabook.db"
//	online_check_interval = "3s"
//	request_timeout = "10s"
//
// Primary API
//
//   - type Config                     — runtime settings for the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, file, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// config file or flags to configure values.
package config
