package services

import (
	"context"
	"testing"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceCreate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	alice, err := s.users.CreateUser(ctx, "Alice", "alice@example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, models.RoleUser, alice.Role)
	assert.NotEmpty(t, alice.PasswordHash)
	assert.NotEqual(t, "password123", alice.PasswordHash)

	t.Run("same username twice", func(t *testing.T) {
		_, err := s.users.CreateUser(ctx, "alice", "other@example.com", "password123", "")
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "username", ce.Field)
	})

	t.Run("same email", func(t *testing.T) {
		_, err := s.users.CreateUser(ctx, "alice2", "alice@example.com", "password123", "")
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "email", ce.Field)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := s.users.CreateUser(ctx, "a!", "nope", "short", "root")
		errs := validationFields(t, err)
		assert.Equal(t, "Password must be at least 8 characters", errs["password"])
		assert.Contains(t, errs, "username")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "role")
	})

	users, err := s.users.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserServiceAuthenticate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.users.CreateUser(ctx, "alice", "alice@example.com", "password123", models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		ok       bool
	}{
		{"right password", "alice", "password123", true},
		{"username is case-insensitive", " ALICE ", "password123", true},
		{"wrong password", "alice", "password124", false},
		{"unknown user", "mallory", "password123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.users.AuthenticateUser(ctx, tt.username, tt.password)
			require.NoError(t, err)
			if tt.ok {
				require.NotNil(t, user)
				assert.True(t, user.IsAdmin())
			} else {
				assert.Nil(t, user)
			}
		})
	}
}

func TestUserServiceUpdate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice, err := s.users.CreateUser(ctx, "alice", "alice@example.com", "password123", "")
	require.NoError(t, err)
	_, err = s.users.CreateUser(ctx, "bob", "bob@example.com", "password123", "")
	require.NoError(t, err)

	t.Run("keeping own email is fine", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, alice, models.UserFields{Email: ptr("alice@example.com")}, nil)
		require.NoError(t, err)
	})

	t.Run("taking another user's email", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, alice, models.UserFields{Email: ptr("bob@example.com")}, nil)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "email", ce.Field)
		assert.Equal(t, "alice@example.com", alice.Email)
	})

	t.Run("role and password", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, alice, models.UserFields{Role: ptr(models.RoleAdmin)}, ptr("new-password"))
		require.NoError(t, err)
		assert.True(t, alice.IsAdmin())

		user, err := s.users.AuthenticateUser(ctx, "alice", "new-password")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.True(t, user.IsAdmin())

		user, err = s.users.AuthenticateUser(ctx, "alice", "password123")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, alice, models.UserFields{}, ptr("short"))
		errs := validationFields(t, err)
		assert.Contains(t, errs, "password")
	})
}

func TestUserServiceDeleteAndReuse(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice, err := s.users.CreateUser(ctx, "alice", "alice@example.com", "password123", "")
	require.NoError(t, err)

	require.NoError(t, s.users.DeleteUser(ctx, alice))

	got, err := s.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, got)

	again, err := s.users.CreateUser(ctx, "alice", "alice@example.com", "password123", "")
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, again.ID)

	deleted, err := s.users.GetDeletedUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	// Restoring would collide with the new active alice.
	_, err = s.users.RestoreUser(ctx, alice)
	var ce *apperrors.ConflictError
	require.ErrorAs(t, err, &ce)
}
