package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-orders/middleware"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/services"
	"github.com/rs/zerolog"
)

// LoginRequest represents the request body for checking credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest represents the request body for updating a user. Absent
// members are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// UserController serves the /auth and /users routes.
type UserController struct {
	users  *services.UserService
	logger zerolog.Logger
}

// NewUserController creates a UserController.
func NewUserController(users *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// Login handles POST /api/v1/auth/login - checks a username and password
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if !decodeJSON(c, &req) {
		return
	}

	user, err := uc.users.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, uc.logger, "authenticate user", err)
		return
	}
	if user == nil {
		respondErrorCode(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// GetMe handles GET /api/v1/auth/me - the authenticated user's profile
func (uc *UserController) GetMe(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, uc.logger, "retrieve current user", err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users (admin)
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, uc.logger, "list users", err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/:id (admin)
func (uc *UserController) GetUser(c *gin.Context) {
	user, ok := uc.load(c, false)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// CreateUser handles POST /api/v1/users (admin)
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !decodeJSON(c, &req) {
		return
	}
	user, err := uc.users.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, uc.logger, "create user", err)
		return
	}
	respondSuccess(c, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/v1/users/:id (admin)
func (uc *UserController) UpdateUser(c *gin.Context) {
	user, ok := uc.load(c, false)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeJSON(c, &req) {
		return
	}

	fields := models.UserFields{Username: req.Username, Email: req.Email, Role: req.Role}
	updated, err := uc.users.UpdateUser(c.Request.Context(), user, fields, req.Password)
	if err != nil {
		respondError(c, uc.logger, "update user", err)
		return
	}
	respondSuccess(c, http.StatusOK, updated)
}

// DeleteUser handles DELETE /api/v1/users/:id (admin, soft delete)
func (uc *UserController) DeleteUser(c *gin.Context) {
	user, ok := uc.load(c, false)
	if !ok {
		return
	}
	if current, err := middleware.GetCurrentUser(c); err == nil && current.ID == user.ID {
		respondErrorCode(c, http.StatusBadRequest, "CANNOT_DELETE_SELF", "You cannot delete your own account", nil)
		return
	}
	if err := uc.users.DeleteUser(c.Request.Context(), user); err != nil {
		respondError(c, uc.logger, "delete user", err)
		return
	}
	respondMessage(c, "User deleted")
}

// RestoreUser handles POST /api/v1/users/:id/restore (admin)
func (uc *UserController) RestoreUser(c *gin.Context) {
	user, ok := uc.load(c, true)
	if !ok {
		return
	}
	restored, err := uc.users.RestoreUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, uc.logger, "restore user", err)
		return
	}
	respondSuccess(c, http.StatusOK, restored)
}

func (uc *UserController) load(c *gin.Context, includeDeleted bool) (*models.User, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	var (
		user *models.User
		err  error
	)
	if includeDeleted {
		user, err = uc.users.GetByIDIncludingDeleted(c.Request.Context(), id)
	} else {
		user, err = uc.users.GetUserByID(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, uc.logger, "retrieve user", err)
		return nil, false
	}
	if user == nil {
		respondNotFound(c, "User")
		return nil, false
	}
	return user, true
}
