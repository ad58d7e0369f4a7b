package repositories

import (
	"errors"
	"strings"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"gorm.io/gorm"
)

// translateError maps store constraint violations onto the same errors the
// services raise from their pre-checks. It returns nil when err is not a
// constraint violation.
func (r *Repository[T]) translateError(err error, entity *T) error {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return ve
	}

	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(msg):
		return r.conflict(msg, entity)
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyViolation(msg):
		field, message := r.fkField, r.fkMessage
		if field == "" {
			field, message = "id", "is still referenced by other records"
		}
		return apperrors.NewValidationError(r.entity, map[string]string{field: message})
	}
	return nil
}

func (r *Repository[T]) conflict(msg string, entity *T) error {
	for _, key := range r.keys {
		if matchesKey(msg, key.Index, key.Column) {
			return &apperrors.ConflictError{Entity: r.entity, Field: key.Field, Value: key.Value(entity)}
		}
	}
	if len(r.keys) == 1 {
		key := r.keys[0]
		return &apperrors.ConflictError{Entity: r.entity, Field: key.Field, Value: key.Value(entity)}
	}
	return &apperrors.ConflictError{Entity: r.entity}
}

func matchesKey(msg, index, column string) bool {
	if index != "" && strings.Contains(msg, strings.ToLower(index)) {
		return true
	}
	return column != "" && strings.Contains(msg, strings.ToLower(column))
}

// SQLite: "UNIQUE constraint failed", Postgres: "duplicate key value",
// MySQL: "Duplicate entry".
func isUniqueViolation(msg string) bool {
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyViolation(msg string) bool {
	return strings.Contains(msg, "foreign key constraint")
}
