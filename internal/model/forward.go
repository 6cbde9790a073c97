// Package model defines shared types for the gateway.
package model

import (
	"context"
	"io"
	"net/http"
)

// ForwardRequest is an API call to be relayed to the backend.
type ForwardRequest struct {
	Ctx    context.Context
	Action string // raw path segment after /api/, never decoded
	Body   []byte // re-serialized JSON
}

// BackendResponse is the raw backend reply. The caller owns Body.
type BackendResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// ErrorEnvelope is the fixed-shape body returned when forwarding fails.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewErrorEnvelope builds a failure envelope carrying err's message.
func NewErrorEnvelope(err error) ErrorEnvelope {
	return ErrorEnvelope{Success: false, Error: err.Error()}
}
