package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
)

const currentUserKey = "current_user"

// Authenticator checks a username and password. It returns nil, nil when
// the credentials do not match.
type Authenticator interface {
	AuthenticateUser(ctx context.Context, username, password string) (*models.User, error)
}

// BasicAuth is a middleware that requires HTTP Basic credentials and stores
// the authenticated user in the Gin context.
func BasicAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="printshop"`)
			abortWithError(c, http.StatusUnauthorized, "MISSING_CREDENTIALS", "Authentication required")
			return
		}

		user, err := auth.AuthenticateUser(c.Request.Context(), username, password)
		if err != nil {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "AUTHENTICATION_ERROR", "Failed to check credentials")
			return
		}
		if user == nil {
			c.Header("WWW-Authenticate", `Basic realm="printshop"`)
			abortWithError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// GetCurrentUser returns the user stored by BasicAuth.
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &apperrors.AuthenticationError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &apperrors.AuthenticationError{Code: "INVALID_USER", Message: "User in context has an unexpected type"}
	}

	return user, nil
}

// RequireRole is a middleware that only lets through users holding one of
// roles. It must run after BasicAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "MISSING_USER", "Could not identify the current user")
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			abortWithError(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Insufficient permissions to access this resource")
			return
		}

		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
