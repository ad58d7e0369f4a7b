package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationErrorEmpty(t *testing.T) {
	assert.Nil(t, NewValidationError("Order", nil))
	assert.Nil(t, NewValidationError("Order", map[string]string{}))
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("Order", map[string]string{
		"title": "Title must be between 1 and 256 characters",
		"log":   "LOG# must be between 5 and 7 alphanumeric characters",
	})
	require.NotNil(t, err)

	assert.Equal(t,
		"Order validation failed: log: LOG# must be between 5 and 7 alphanumeric characters; title: Title must be between 1 and 256 characters",
		err.Error())
	assert.Equal(t, []string{"log", "title"}, err.FieldNames())
	assert.Equal(t, "Title must be between 1 and 256 characters", err.Field("title"))
	assert.Empty(t, err.Field("cust"))
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Entity: "User", Field: "username", Value: "alice"}
	assert.Equal(t, "User with username alice already exists", err.Error())

	bare := &ConflictError{Entity: "Order"}
	assert.Equal(t, "Order already exists", bare.Error())
}

func TestErrorHelpersUnwrap(t *testing.T) {
	validation := fmt.Errorf("create order: %w", NewValidationError("Order", map[string]string{"log": "bad"}))
	conflict := fmt.Errorf("create user: %w", &ConflictError{Entity: "User", Field: "email"})

	tests := []struct {
		name         string
		err          error
		isValidation bool
		isConflict   bool
	}{
		{"wrapped validation", validation, true, false},
		{"wrapped conflict", conflict, false, true},
		{"plain error", errors.New("boom"), false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValidation, IsValidation(tt.err))
			assert.Equal(t, tt.isConflict, IsConflict(tt.err))
		})
	}
}

func TestAuthErrors(t *testing.T) {
	authn := &AuthenticationError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password"}
	authz := &AuthorizationError{Code: "FORBIDDEN", Message: "Admin role required"}

	assert.Equal(t, "Invalid username or password", authn.Error())
	assert.Equal(t, "Admin role required", authz.Error())
}
