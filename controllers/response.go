package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/rs/zerolog"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

func respondErrorCode(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

func respondNotFound(c *gin.Context, entity string) {
	respondErrorCode(c, http.StatusNotFound, strings.ToUpper(entity)+"_NOT_FOUND", entity+" not found", nil)
}

// respondError maps a service error onto the error envelope. Anything that
// is not one of the typed errors is logged and reported as a 500.
func respondError(c *gin.Context, logger zerolog.Logger, action string, err error) {
	var (
		ve    *apperrors.ValidationError
		ce    *apperrors.ConflictError
		authn *apperrors.AuthenticationError
		authz *apperrors.AuthorizationError
	)
	switch {
	case errors.As(err, &ve):
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", ve.Fields)
	case errors.As(err, &ce):
		respondErrorCode(c, http.StatusConflict, strings.ToUpper(ce.Entity)+"_EXISTS", ce.Error(), nil)
	case errors.As(err, &authn):
		respondErrorCode(c, http.StatusUnauthorized, authn.Code, authn.Message, nil)
	case errors.As(err, &authz):
		respondErrorCode(c, http.StatusForbidden, authz.Code, authz.Message, nil)
	default:
		_ = c.Error(err)
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Failed to " + action)
		respondErrorCode(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action, nil)
	}
}

// decodeJSON reads the request body into dst, rejecting fields dst does not
// declare. It writes the 400 response itself and returns false on failure.
func decodeJSON(c *gin.Context, dst interface{}) bool {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return false
	}
	return true
}

// parseID reads the :id path parameter. It writes the 400 response itself
// and returns false when the parameter is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("Invalid ID %q", c.Param("id")), nil)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional positive integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", gin.H{
			name: name + " must be an integer",
		})
		return 0, false
	}
	return n, true
}
