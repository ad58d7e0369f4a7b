package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/metrics"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted.
const MinPasswordLength = 8

// UserService manages accounts and authentication.
type UserService struct {
	*BaseService[models.User, models.UserFields]
	users  *repositories.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a user service.
func NewUserService(users *repositories.UserRepository, logger zerolog.Logger) *UserService {
	s := &UserService{
		users:  users,
		logger: logger.With().Str("service", "user").Logger(),
	}
	s.BaseService = NewBaseService[models.User, models.UserFields](
		users.Repository, s.validate, sanitizeUserFields, logger, "User")
	return s
}

// GetUserByID returns the active user with id, or nil.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.GetByID(ctx, id)
}

// GetUserByUsername returns the active user named username, or nil.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, normalizeUsername(username))
}

// GetUserByEmail returns the active user with email, or nil.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetByEmail(ctx, strings.TrimSpace(email))
}

// GetAllUsers returns every active user.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.GetAll(ctx)
}

// CreateUser registers a new account. An empty role means models.RoleUser.
// A taken username or email is a *apperrors.ConflictError naming the field.
func (s *UserService) CreateUser(ctx context.Context, username, email, password, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	fields := models.UserFields{Username: &username, Email: &email, Role: &role}
	sanitizeUserFields(&fields)

	if err := s.check(ctx, &fields, nil, &password); err != nil {
		s.logger.Warn().Err(err).Str("username", *fields.Username).Msg("Invalid data for User creation")
		metrics.RecordOperation("User", "create", outcome(err))
		return nil, err
	}

	var user *models.User
	err := s.users.Transaction(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		created, err := users.Create(ctx, fields)
		if err != nil {
			return err
		}
		if err := users.UpdatePassword(ctx, created, password); err != nil {
			return err
		}
		user = created
		return nil
	})
	metrics.RecordOperation("User", "create", outcome(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("Created new user")
	return user, nil
}

// UpdateUser applies fields to user and, when password is non-nil, sets a
// new password in the same transaction. Callers decide who may change a
// role.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User, fields models.UserFields, password *string) (*models.User, error) {
	sanitizeUserFields(&fields)
	if err := s.check(ctx, &fields, user, password); err != nil {
		s.logger.Warn().Err(err).Uint("id", user.ID).Msg("Invalid data for User update")
		metrics.RecordOperation("User", "update", outcome(err))
		return nil, err
	}

	before := *user
	err := s.users.Transaction(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if _, err := users.Update(ctx, user, fields); err != nil {
			return err
		}
		if password != nil {
			return users.UpdatePassword(ctx, user, *password)
		}
		return nil
	})
	metrics.RecordOperation("User", "update", outcome(err))
	if err != nil {
		*user = before
		return nil, err
	}

	if before.Role != user.Role {
		s.logger.Info().
			Uint("id", user.ID).
			Str("old_role", before.Role).
			Str("new_role", user.Role).
			Msg("User role changed")
	}
	return user, nil
}

// AuthenticateUser returns the user when username and password match, and
// nil otherwise. The two failure cases are indistinguishable to the caller.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.Authenticate(ctx, normalizeUsername(username), password)
	switch {
	case err != nil:
		metrics.RecordOperation("User", "authenticate", metrics.OutcomeError)
		return nil, err
	case user == nil:
		metrics.RecordOperation("User", "authenticate", metrics.OutcomeInvalid)
	default:
		metrics.RecordOperation("User", "authenticate", metrics.OutcomeSuccess)
	}
	return user, nil
}

// DeleteUser soft-deletes user.
func (s *UserService) DeleteUser(ctx context.Context, user *models.User) error {
	return s.Delete(ctx, user)
}

// HardDeleteUser permanently removes user.
func (s *UserService) HardDeleteUser(ctx context.Context, user *models.User) error {
	return s.HardDelete(ctx, user)
}

// RestoreUser undoes a soft delete.
func (s *UserService) RestoreUser(ctx context.Context, user *models.User) (*models.User, error) {
	return s.Restore(ctx, user)
}

// GetDeletedUsers returns every soft-deleted user.
func (s *UserService) GetDeletedUsers(ctx context.Context) ([]models.User, error) {
	return s.GetDeleted(ctx)
}

// GetAllUsersIncludingDeleted returns active and deleted users.
func (s *UserService) GetAllUsersIncludingDeleted(ctx context.Context) ([]models.User, error) {
	return s.GetAllIncludingDeleted(ctx)
}

func (s *UserService) validate(ctx context.Context, fields *models.UserFields, current *models.User) error {
	return s.check(ctx, fields, current, nil)
}

// check validates the candidate user and password, then looks for a
// username and then an email collision.
func (s *UserService) check(ctx context.Context, fields *models.UserFields, current *models.User, password *string) error {
	user := candidate(*fields, current)
	errs := entityErrors(user)
	if password != nil && utf8.RuneCountInString(*password) < MinPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}
	if err := validationError("User", errs); err != nil {
		return err
	}

	for _, key := range []struct {
		field string
		value string
		prior string
	}{
		{"username", user.Username, priorValue(current, func(u *models.User) string { return u.Username })},
		{"email", user.Email, priorValue(current, func(u *models.User) string { return u.Email })},
	} {
		if current != nil && key.value == key.prior {
			continue
		}
		var excludeID uint
		if current != nil {
			excludeID = current.ID
		}
		taken, err := s.users.ExistsExcluding(ctx, key.field, key.value, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return &apperrors.ConflictError{Entity: "User", Field: key.field, Value: key.value}
		}
	}
	return nil
}

func priorValue(u *models.User, get func(*models.User) string) string {
	if u == nil {
		return ""
	}
	return get(u)
}

// sanitizeUserFields escapes the text fields and folds the username to
// lower case.
func sanitizeUserFields(fields *models.UserFields) {
	sanitizeStrings(fields)
	if fields.Username != nil {
		lower := strings.ToLower(*fields.Username)
		fields.Username = &lower
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
