package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable the tests touch so the host environment
// cannot leak into a run. The loader treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATABASE_URL", "DB_URL", "DB_DRIVER", "DRY_RUN", "DATASETS",
		"SOURCE_WORKBOOK", "SPREADSHEET_ID", "GOOGLE_ACCESS_TOKEN", "SOURCE_CSV_DIR",
		"COMPLETENESS_THRESHOLD", "HEADER_SCAN_LIMIT", "SERVER_PORT", "LOG_LEVEL",
		"SOURCE_RETRY_DELAY", "DATASET_TIMEOUT",
	} {
		t.Setenv(name, "")
	}
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "postgres", URL: "postgres://localhost/fish", MaxConns: 4, MinConns: 1},
		Source:   SourceConfig{ExportURL: "https://example.com/%s", FetchTimeout: time.Minute, RetryAttempts: 3, RetryDelay: 5 * time.Second},
		Pipeline: PipelineConfig{ScanLimit: 5, Completeness: 0.6, Timeout: time.Minute, BatchSize: 5000, PreviewRows: 5, HistorySize: 20},
		Server:   ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/fish")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Pipeline.ScanLimit != 5 {
		t.Errorf("Pipeline.ScanLimit = %d, want 5", cfg.Pipeline.ScanLimit)
	}
	if cfg.Pipeline.Completeness != 0.6 {
		t.Errorf("Pipeline.Completeness = %v, want 0.6", cfg.Pipeline.Completeness)
	}
	if cfg.Pipeline.BatchSize != 5000 {
		t.Errorf("Pipeline.BatchSize = %d, want 5000", cfg.Pipeline.BatchSize)
	}
	if cfg.Source.RetryAttempts != 3 || cfg.Source.RetryDelay != 5*time.Second {
		t.Errorf("Source retry = %d × %v, want 3 × 5s", cfg.Source.RetryAttempts, cfg.Source.RetryDelay)
	}
	if len(cfg.Pipeline.Datasets) != 0 {
		t.Errorf("Pipeline.Datasets = %v, want all", cfg.Pipeline.Datasets)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/fish")
	t.Setenv("COMPLETENESS_THRESHOLD", "0.75")
	t.Setenv("HEADER_SCAN_LIMIT", "8")
	t.Setenv("SOURCE_RETRY_DELAY", "1m30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.Completeness != 0.75 {
		t.Errorf("Pipeline.Completeness = %v, want 0.75", cfg.Pipeline.Completeness)
	}
	if cfg.Pipeline.ScanLimit != 8 {
		t.Errorf("Pipeline.ScanLimit = %d, want 8", cfg.Pipeline.ScanLimit)
	}
	if cfg.Source.RetryDelay != 90*time.Second {
		t.Errorf("Source.RetryDelay = %v, want 90s", cfg.Source.RetryDelay)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_URL", "postgres://localhost/alt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/alt" {
		t.Errorf("Database.URL = %q, want fallback from DB_URL", cfg.Database.URL)
	}
}

func TestLoad_DatabaseURLRequiredUnlessDryRun(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("Load() error = %v, want DATABASE_URL failure", err)
	}

	t.Setenv("DRY_RUN", "true")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() with DRY_RUN error = %v", err)
	}
}

func TestLoad_CommaSeparatedDatasets(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRY_RUN", "true")
	t.Setenv("DATASETS", "expenses, inventory ,, kpi_target")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"expenses", "inventory", "kpi_target"}
	if strings.Join(cfg.Pipeline.Datasets, "|") != strings.Join(want, "|") {
		t.Errorf("Pipeline.Datasets = %v, want %v", cfg.Pipeline.Datasets, want)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRY_RUN", "true")
	t.Setenv("COMPLETENESS_THRESHOLD", "most")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "COMPLETENESS_THRESHOLD") {
		t.Fatalf("Load() error = %v, want invalid COMPLETENESS_THRESHOLD", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "max conns below min conns",
			mutate:  func(c *Config) { c.Database.MaxConns, c.Database.MinConns = 2, 5 },
			wantErr: "DB_MAX_CONNS",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "DB_DRIVER",
		},
		{
			name:    "completeness above one",
			mutate:  func(c *Config) { c.Pipeline.Completeness = 1.5 },
			wantErr: "COMPLETENESS_THRESHOLD",
		},
		{
			name:    "export url without placeholder",
			mutate:  func(c *Config) { c.Source.SpreadsheetID, c.Source.ExportURL = "abc", "https://example.com" },
			wantErr: "SOURCE_EXPORT_URL",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") || !strings.Contains(err.Error(), "LOG_FORMAT") {
		t.Errorf("expected both failures in one error: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = "postgres://farm:hunter2@db/fish"
	cfg.Source.AccessToken = "ya29.token"

	str := cfg.String()
	if strings.Contains(str, "hunter2") || strings.Contains(str, "ya29") {
		t.Errorf("String() leaks a secret: %s", str)
	}
	if !strings.Contains(str, "[MASKED]") {
		t.Error("String() should contain MASKED placeholder")
	}
}
