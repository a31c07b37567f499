package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable signals a transport-level failure: the backend could not
	// be reached or did not answer within the request timeout.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized signals an expected auth failure: the presented
	// credential is invalid, expired or rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError is a single field-level rejection reported by the backend.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the backend's form-level rejection: a human-readable
// message plus optional per-field details. It matches ErrUnauthorized via
// errors.Is so callers can treat rejected credentials uniformly.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrUnauthorized
}
