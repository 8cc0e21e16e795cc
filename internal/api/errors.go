package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Failure taxonomy for backend calls. Callers branch with errors.Is; the
// client never retries on its own.
var (
	// ErrUnauthorized means the token is missing, expired, or revoked.
	// Observing it anywhere must invalidate the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the record does not exist on the server.
	ErrNotFound = errors.New("not found")

	// ErrUnreachable means the request never produced a usable response:
	// connection refused, timeout, DNS failure, or a malformed body.
	ErrUnreachable = errors.New("backend unreachable")
)

// ValidationError carries the field-level messages a 400 response reports.
// The draft stays intact so the user can correct input and resubmit.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// FieldError returns the first message recorded for a field, or "".
func (e *ValidationError) FieldError(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// NewValidationError builds a ValidationError with one message per field.
func NewValidationError(fields map[string]string) *ValidationError {
	out := make(map[string][]string, len(fields))
	for name, msg := range fields {
		out[name] = []string{msg}
	}
	return &ValidationError{Fields: out}
}
