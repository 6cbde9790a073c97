package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"spa-gateway/internal/model"
	"spa-gateway/internal/service"
)

const apiPrefix = "/api/"

// emptyObject is forwarded when the request carries no JSON body.
var emptyObject = []byte("{}")

// errInvalidJSON rejects bodies that fail strict JSON parsing.
var errInvalidJSON = echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")

// ForwardHandler relays POST /api/{action} to the backend.
type ForwardHandler struct {
	service *service.ForwardService
	logger  *slog.Logger
}

// NewForwardHandler creates a ForwardHandler.
func NewForwardHandler(svc *service.ForwardService, logger *slog.Logger) *ForwardHandler {
	return &ForwardHandler{
		service: svc,
		logger:  logger.With("component", "forward_handler"),
	}
}

// Match matches POST requests whose path is /api/ plus one non-empty segment.
func (h *ForwardHandler) Match(c echo.Context) bool {
	req := c.Request()
	if req.Method != http.MethodPost {
		return false
	}
	_, ok := actionFromPath(req.URL.EscapedPath())
	return ok
}

// Handle forwards the JSON body and relays the backend reply with status 200,
// or a {success:false} envelope with status 500 when forwarding fails.
func (h *ForwardHandler) Handle(c echo.Context) error {
	req := c.Request()
	action, _ := actionFromPath(req.URL.EscapedPath())

	body, err := readJSONBody(req)
	if err != nil {
		return err
	}

	// A client hanging up does not cancel the backend call.
	fr := &model.ForwardRequest{
		Ctx:    context.WithoutCancel(req.Context()),
		Action: action,
		Body:   body,
	}

	raw, err := h.service.Forward(fr)
	if err != nil {
		h.logger.Debug("forward failed", "action", action, "err", err)
		return c.JSON(http.StatusInternalServerError, model.NewErrorEnvelope(err))
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// actionFromPath extracts the still-escaped action segment. A single trailing
// slash is tolerated.
func actionFromPath(escapedPath string) (string, bool) {
	if !strings.HasPrefix(escapedPath, apiPrefix) {
		return "", false
	}
	action := strings.TrimSuffix(escapedPath[len(apiPrefix):], "/")
	if action == "" || strings.Contains(action, "/") {
		return "", false
	}
	return action, true
}

// readJSONBody returns the request body re-serialized as compact JSON. Bodies
// that are not declared as JSON, and empty ones, become {}. Only objects and
// arrays are accepted at the top level. Size limits are enforced upstream by
// the BodyLimit middleware, whose reader error is returned unchanged.
func readJSONBody(req *http.Request) ([]byte, error) {
	if !isJSON(req.Header.Get(echo.HeaderContentType)) {
		return emptyObject, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return emptyObject, nil
	}
	if data[0] != '{' && data[0] != '[' {
		return nil, errInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.InputOffset() != int64(len(data)) {
		return nil, errInvalidJSON
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == echo.MIMEApplicationJSON
}
