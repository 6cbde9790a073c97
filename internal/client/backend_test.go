package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spa-gateway/internal/config"
	"spa-gateway/internal/metrics"
)

func testConfig(timeoutSeconds int) *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			TimeoutSeconds:  timeoutSeconds,
			IdleConnections: 10,
		},
	}
}

func TestBackendClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want %q", ct, "application/json")
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"org":"ACME"}` {
			t.Errorf("body = %q, want %q", string(body), `{"org":"ACME"}`)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewBackendClient(testConfig(10), logger, nil)

	resp, err := c.PostJSON(context.Background(), srv.URL+"/api/auth", []byte(`{"org":"ACME"}`))
	if err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != `{"success":true}` {
		t.Errorf("body = %q, want %q", string(body), `{"success":true}`)
	}
}

func TestBackendClient_PostJSON_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewBackendClient(testConfig(10), logger, m)

	resp, err := c.PostJSON(context.Background(), srv.URL+"/api/x", []byte(`{}`))
	if err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	_ = resp.Body.Close()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() != "spa_gateway_backend_responses_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "status_code" && lp.GetValue() == "418" {
					return
				}
			}
		}
	}
	t.Error("expected spa_gateway_backend_responses_total with status_code=418")
}

func TestBackendClient_PostJSON_Error(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewBackendClient(testConfig(1), logger, nil)

	_, err := c.PostJSON(context.Background(), "http://127.0.0.1:1/api/x", []byte(`{}`))
	if err == nil {
		t.Fatal("PostJSON() expected error for unreachable host, got nil")
	}
}

func TestBackendClient_PostJSON_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewBackendClient(testConfig(1), logger, nil)

	_, err := c.PostJSON(context.Background(), "http://[::1", []byte(`{}`))
	if err == nil {
		t.Fatal("PostJSON() expected error for malformed URL, got nil")
	}
}

func TestBackendClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewBackendClient(testConfig(1), logger, nil)

	start := time.Now()
	_, err := c.PostJSON(context.Background(), srv.URL+"/api/slow", []byte(`{}`))
	if err == nil {
		t.Fatal("PostJSON() expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("PostJSON() took %v, want the configured 1s timeout to apply", elapsed)
	}
}
