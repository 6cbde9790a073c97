package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"spa-gateway/internal/config"
)

func TestHealthz(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(&config.Config{}, "test")
	if err := h.Healthz(c); err != nil {
		t.Fatalf("Healthz() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name        string
		deployment  config.DeploymentConfig
		wantMode    string
		wantBackend string
	}{
		{
			name:        "local",
			deployment:  config.DeploymentConfig{Mode: config.DeploymentLocal},
			wantMode:    "local",
			wantBackend: "http://localhost:5000",
		},
		{
			name:        "managed",
			deployment:  config.DeploymentConfig{Mode: config.DeploymentManaged, Host: "example.vercel.app"},
			wantMode:    "managed",
			wantBackend: "https://example.vercel.app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/gateway/status", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			cfg := &config.Config{
				Backend:    config.BackendConfig{LocalURL: "http://localhost:5000"},
				Deployment: tt.deployment,
			}
			h := NewHealthHandler(cfg, "1.2.3")
			if err := h.Status(c); err != nil {
				t.Fatalf("Status() error = %v", err)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["version"] != "1.2.3" {
				t.Errorf("body.version = %q, want %q", body["version"], "1.2.3")
			}
			if body["deployment_mode"] != tt.wantMode {
				t.Errorf("body.deployment_mode = %q, want %q", body["deployment_mode"], tt.wantMode)
			}
			if body["backend_url"] != tt.wantBackend {
				t.Errorf("body.backend_url = %q, want %q", body["backend_url"], tt.wantBackend)
			}
		})
	}
}
