package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gestionale/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "yes").
		Body(map[string]string{"hello": "world"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if got := w.Header().Get("X-Custom"); got != "yes" {
		t.Errorf("X-Custom = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestJSONResponseBuilderNoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "" {
		t.Errorf("Content-Type = %q, want unset without a body", ct)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        core.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "validation",
			err:        core.Validationf("name is required"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_failed",
		},
		{
			name:       "transport",
			err:        &core.TransportError{StatusCode: http.StatusBadGateway, Err: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantCode:   "backend_unavailable",
		},
		{
			name:       "unknown",
			err:        errors.New("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var env errorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("invalid envelope: %v", err)
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if env.Error.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestTransportErrorDetailNotLeaked(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, &core.TransportError{StatusCode: 500, Err: errors.New("secret internal detail")})

	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Error.Message == "" || strings.Contains(env.Error.Message, "secret") {
		t.Errorf("message = %q, must be generic", env.Error.Message)
	}
}
