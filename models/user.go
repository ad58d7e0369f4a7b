package models

import (
	"strings"
	"time"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles a user may hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an authentication principal. The password is only ever stored as
// a bcrypt hash.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id" validate:"-"`
	Username     string         `gorm:"size:64;not null" json:"username" validate:"required,min=3,max=64,username"`
	Email        string         `gorm:"size:120;not null" json:"email" validate:"required,max=120,contactemail"`
	PasswordHash string         `gorm:"size:255" json:"-" validate:"-"`
	Role         string         `gorm:"size:20;not null;default:'user'" json:"role" validate:"required,oneof=user admin"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

var userMessages = validation.Messages{
	"username.required": "Username is required",
	"username.min":      "Username must be between 3 and 64 characters",
	"username.max":      "Username must be between 3 and 64 characters",
	"username":          "Username can only contain letters, numbers, underscores, periods, and hyphens",
	"email.required":    "Email is required",
	"email":             "Invalid email format",
	"role":              "Role must be one of: user, admin",
}

// ValidateData returns field -> message for every rule the user breaks.
func (u *User) ValidateData() map[string]string {
	return validation.ValidateStruct(u, userMessages)
}

// BeforeSave normalises the username and default role, then blocks any write
// of an invalid user.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.ToLower(u.Username)
	if u.Role == "" {
		u.Role = RoleUser
	}
	if ve := apperrors.NewValidationError("User", u.ValidateData()); ve != nil {
		return ve
	}
	return nil
}

// SetPassword replaces the stored hash with a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsDeleted reports whether the user has been soft deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt.Valid
}

// UserFields lists the settable user attributes. The password is not one of
// them; it goes through SetPassword.
type UserFields struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// Apply copies the present fields onto u and reports what changed.
func (f UserFields) Apply(u *User) []Change {
	var cs changeSet
	setValue(&cs, "username", &u.Username, f.Username)
	setValue(&cs, "email", &u.Email, f.Email)
	setValue(&cs, "role", &u.Role, f.Role)
	return cs
}

// Strings returns the addresses of every free-text member so a sanitizer
// can swap in cleaned copies.
func (f *UserFields) Strings() []**string {
	return []**string{&f.Username, &f.Email, &f.Role}
}

// GetID returns the primary key.
func (u *User) GetID() uint {
	return u.ID
}
