// Package apperrors holds the typed errors shared by the models, repositories,
// services and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

// NewValidationError returns nil when fields is empty so callers can write
// `if err := NewValidationError(...); err != nil`.
func NewValidationError(entity string, fields map[string]string) *ValidationError {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.FieldNames() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	if e.Entity == "" {
		return "validation failed: " + strings.Join(parts, "; ")
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(parts, "; "))
}

// Field returns the message recorded for name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// FieldNames returns the failing field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConflictError reports a duplicate business key. The service pre-check and
// the store's unique index both produce it.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
	Hint   string // optional remedy shown after the message
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s already exists", e.Entity)
	if e.Field != "" {
		msg = fmt.Sprintf("%s with %s %s already exists", e.Entity, e.Field, e.Value)
	}
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// AuthenticationError is returned when credentials are missing or wrong.
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError is returned when an authenticated user lacks the role
// required for an operation.
type AuthorizationError struct {
	Code    string
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err wraps a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
