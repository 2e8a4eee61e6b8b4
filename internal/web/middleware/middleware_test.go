package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "no keys configured", wantStatus: http.StatusTeapot},
		{name: "missing key", keys: []string{"k1"}, wantStatus: http.StatusUnauthorized, wantCode: "AUTH001"},
		{name: "wrong key", keys: []string{"k1"}, header: "k2", wantStatus: http.StatusForbidden, wantCode: "AUTH002"},
		{name: "second key", keys: []string{"k1", "k2"}, header: "k2", wantStatus: http.StatusTeapot},
		{name: "prefix of key", keys: []string{"k1-long"}, header: "k1", wantStatus: http.StatusForbidden, wantCode: "AUTH002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(tt.keys)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" && !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("body %q missing %s", rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rec := httptest.NewRecorder()
	Logger(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	Logger(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	if !strings.Contains(out, "status=418") || !strings.Contains(out, "path=/api/runs") {
		t.Errorf("missing request fields in %q", out)
	}
	if strings.Contains(out, "/healthz") {
		t.Errorf("health check logged at info: %q", out)
	}
}
