package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// uniqueUserColumns are the columns ExistsExcluding may check.
var uniqueUserColumns = map[string]bool{"username": true, "email": true}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// UserRepository adds credential lookups to Repository.
type UserRepository struct {
	*Repository[models.User]
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB, logger zerolog.Logger) *UserRepository {
	return &UserRepository{Repository: NewRepository(db, logger, "User",
		UniqueKey[models.User]{
			Field:  "username",
			Index:  "idx_users_username_active",
			Column: "users.username",
			Value:  func(u *models.User) string { return u.Username },
		},
		UniqueKey[models.User]{
			Field:  "email",
			Index:  "idx_users_email_active",
			Column: "users.email",
			Value:  func(u *models.User) string { return u.Email },
		},
	)}
}

// WithTx returns a copy of the repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{Repository: r.Repository.WithTx(tx)}
}

// GetByUsername returns the active user named username, or nil.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindBy(ctx, map[string]interface{}{"username": username})
}

// GetByEmail returns the active user with email, or nil.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindBy(ctx, map[string]interface{}{"email": email})
}

// ExistsExcluding reports whether an active user other than excludeID has
// field set to value. field must be "username" or "email".
func (r *UserRepository) ExistsExcluding(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	if !uniqueUserColumns[field] {
		return false, fmt.Errorf("user field %q is not unique", field)
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where(map[string]interface{}{field: value}).
		Where("id <> ?", excludeID).
		Count(&count).Error
	if err != nil {
		return false, r.readFailed("exists_excluding", err)
	}
	return count > 0, nil
}

// Authenticate returns the active user matching username and password, or
// nil. An unknown username costs the same bcrypt comparison as a wrong
// password so the two cannot be told apart by timing.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
		r.logger.Warn().Str("username", username).Msg("Authentication failed: unknown user")
		return nil, nil
	}
	if !user.CheckPassword(password) {
		r.logger.Warn().Str("username", username).Msg("Authentication failed: wrong password")
		return nil, nil
	}
	r.logger.Info().Str("username", username).Msg("User authenticated")
	return user, nil
}

func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// UpdatePassword hashes password onto user and stores only the hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, user *models.User, password string) error {
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err := r.db.WithContext(ctx).Model(user).Update("password_hash", user.PasswordHash).Error
	if err != nil {
		return r.writeFailed("update_password", err, user, nil)
	}
	r.logger.Info().Uint("id", user.ID).Msg("Password updated")
	return nil
}
