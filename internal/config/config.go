// Package config provides centralized configuration for the ETL.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	Pipeline PipelineConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the loader: postgres, sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// URL is the connection string. Required unless the run is a dry run.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SourceConfig selects where worksheets are read from. Exactly one of
// Workbook, SpreadsheetID or CSVDir is used, in that order of preference.
type SourceConfig struct {
	// Workbook is a local .xlsx path
	Workbook string `env:"SOURCE_WORKBOOK"`

	// SpreadsheetID is a Google Sheets document exported as .xlsx
	SpreadsheetID string `env:"SPREADSHEET_ID"`

	// AccessToken is sent as a bearer token when downloading the spreadsheet
	AccessToken string `env:"GOOGLE_ACCESS_TOKEN"`

	// ExportURL overrides the spreadsheet export endpoint; %s is replaced by the ID
	ExportURL string `env:"SOURCE_EXPORT_URL" default:"https://docs.google.com/spreadsheets/d/%s/export?format=xlsx"`

	// CSVDir holds one <dataset>.csv per dataset
	CSVDir string `env:"SOURCE_CSV_DIR"`

	// FetchTimeout bounds a single download attempt (default: 60s)
	FetchTimeout time.Duration `env:"SOURCE_FETCH_TIMEOUT" default:"60s"`

	// RetryAttempts is the number of download attempts (default: 3)
	RetryAttempts int `env:"SOURCE_RETRY_ATTEMPTS" default:"3"`

	// RetryDelay is the pause between download attempts (default: 5s)
	RetryDelay time.Duration `env:"SOURCE_RETRY_DELAY" default:"5s"`
}

// Configured reports whether any source is set.
func (s SourceConfig) Configured() bool {
	return s.Workbook != "" || s.SpreadsheetID != "" || s.CSVDir != ""
}

// PipelineConfig holds transformation and run settings.
type PipelineConfig struct {
	// ScanLimit is how many leading rows are scored as header candidates (default: 5)
	ScanLimit int `env:"HEADER_SCAN_LIMIT" default:"5"`

	// Completeness is the row-quality threshold as a fraction of columns (default: 0.6)
	Completeness float64 `env:"COMPLETENESS_THRESHOLD" default:"0.6"`

	// Datasets restricts runs to these keys; empty means all registered datasets
	Datasets []string `env:"DATASETS"`

	// DryRun transforms without writing to the database
	DryRun bool `env:"DRY_RUN" default:"false"`

	// Timeout bounds one dataset's extract, transform and load (default: 10m)
	Timeout time.Duration `env:"DATASET_TIMEOUT" default:"10m"`

	// BatchSize is the number of rows per insert batch (default: 5000)
	BatchSize int `env:"LOAD_BATCH_SIZE" default:"5000"`

	// PreviewRows is how many transformed rows a report keeps (default: 5)
	PreviewRows int `env:"PREVIEW_ROWS" default:"5"`

	// Interval schedules repeated runs in serve mode; 0 disables scheduling
	Interval time.Duration `env:"RUN_INTERVAL" default:"0s"`

	// HistorySize is how many run summaries the status server keeps (default: 20)
	HistorySize int `env:"RUN_HISTORY_SIZE" default:"20"`
}

// ServerConfig holds status server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// APIKeys guard run triggers via the X-API-Key header; empty leaves them open
	APIKeys []string `env:"SERVER_API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log output format: text, json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File additionally appends log output to this path
	File string `env:"LOG_FILE"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
