package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// withDefault installs a JSON logger writing to buf for the test's duration.
func withDefault(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(NewHandler(buf, "debug", "json")))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestFromContext_RunFields(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, &buf)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = core.ContextWithRunID(ctx, "run-42")
	ctx = core.ContextWithDataset(ctx, "expenses")

	FromContext(ctx).Info("loaded", "rows", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	for key, want := range map[string]any{
		"request_id": "req-1",
		"run_id":     "run-42",
		"dataset":    "expenses",
		"rows":       float64(3),
	} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %v", key, entry[key], want)
		}
	}
}

func TestFromContext_Bare(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, &buf)

	WithFields(context.Background(), "table", "expenses").Info("hello")

	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("unexpected run_id in %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"table":"expenses"`) {
		t.Errorf("missing field in %s", buf.String())
	}
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "etl.log")
	closeFn, err := Setup("info", "text", path)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	slog.Info("pipeline finished", "datasets", 6)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "pipeline finished") {
		t.Errorf("log file = %q", data)
	}
}
