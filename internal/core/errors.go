package core

import (
	"errors"
	"fmt"
)

// The error taxonomy every layer above the remote client relies on.
// Stores and services never swallow these; they propagate up to the
// HTTP layer, which picks the status code.
var (
	// ErrNotFound reports an id-based lookup with no matching row,
	// distinct from a transport failure.
	ErrNotFound = errors.New("record not found")

	ErrInvalidAmount = errors.New("invalid amount")
)

// ValidationError reports a write the store rejected or an input that
// failed the single validation boundary (missing required field,
// unknown field, invalid enum value).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransportError reports that the remote store was unreachable or
// answered with a server-side failure. StatusCode is zero when no
// response was received at all.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
