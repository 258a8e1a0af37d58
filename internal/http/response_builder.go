// Package http provides the JSON API server and handlers.
//
// This file implements the builder used to construct API responses and
// the mapping from the core error taxonomy to the error envelope every
// endpoint shares.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gestionale/internal/core"
)

// JSONResponseBuilder provides a fluent API for building API responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the payload to encode as the response body.
func (b *JSONResponseBuilder) Body(payload any) *JSONResponseBuilder {
	b.payload = payload
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

// errorEnvelope is the error shape every endpoint returns.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse creates an error response with the shared envelope.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// WriteError maps an error from the store or validation layer onto the
// API status codes: missing rows are 404, rejected input is 422, a
// broken or unreachable backend is 502. Anything unexpected is a 500
// with no internal detail leaked.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		ErrorResponse(http.StatusNotFound, "not_found", "resource not found").Write(w)
	case core.IsValidation(err):
		ErrorResponse(http.StatusUnprocessableEntity, "validation_failed", err.Error()).Write(w)
	case core.IsTransport(err):
		slog.Error("Backend request failed", "error", err)
		ErrorResponse(http.StatusBadGateway, "backend_unavailable", "the data store did not answer").Write(w)
	default:
		slog.Error("Unhandled error", "error", err)
		ErrorResponse(http.StatusInternalServerError, "internal", "internal server error").Write(w)
	}
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, "bad_request", message)
}

// UnauthorizedError creates a 401 Unauthorized error response.
func UnauthorizedError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, "unauthorized", message)
}

// TooManyRequestsError creates a 429 error response.
func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate_limited", "rate limit exceeded, try again later").
		Header("Retry-After", "60")
}

// ServiceUnavailableError creates a 503 error response.
func ServiceUnavailableError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, "unavailable", message)
}
