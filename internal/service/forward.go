// Package service implements the API forwarding logic.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"spa-gateway/internal/client"
	"spa-gateway/internal/config"
	"spa-gateway/internal/model"
)

// ErrInvalidAction is returned for an empty action or one containing a slash.
var ErrInvalidAction = errors.New("action must be a single non-empty path segment")

// ForwardService relays API calls to the backend selected at startup.
type ForwardService struct {
	client *client.BackendClient
	logger *slog.Logger
	base   string // scheme://host with no trailing slash
}

// NewForwardService creates a ForwardService for the configured deployment.
func NewForwardService(c *client.BackendClient, cfg *config.Config, logger *slog.Logger) *ForwardService {
	return &ForwardService{
		client: c,
		logger: logger.With("component", "forward_service"),
		base:   BackendBase(cfg),
	}
}

// BackendBase returns the scheme and host every API call is sent to.
func BackendBase(cfg *config.Config) string {
	if cfg.Deployment.Managed() {
		return "https://" + cfg.Deployment.Host
	}
	return cfg.Backend.LocalURL
}

// TargetURL returns the backend URL for action. The action is appended as-is.
func (s *ForwardService) TargetURL(action string) string {
	return s.base + "/api/" + action
}

// Forward posts the request body to the backend and returns its JSON reply
// unmodified. The backend status code is not inspected: any well-formed JSON
// body counts as success. Transport failures and non-JSON replies are errors.
func (s *ForwardService) Forward(fr *model.ForwardRequest) (json.RawMessage, error) {
	if fr.Action == "" || strings.Contains(fr.Action, "/") {
		return nil, ErrInvalidAction
	}

	target := s.TargetURL(fr.Action)
	s.logger.Debug("forwarding request", "action", fr.Action, "target", target)

	resp, err := s.client.PostJSON(fr.Ctx, target, fr.Body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}
	if err := checkJSON(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// checkJSON surfaces the decoder's error for anything that is not exactly one
// JSON value.
func checkJSON(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("invalid JSON from backend: %w", err)
	}
	return nil
}
