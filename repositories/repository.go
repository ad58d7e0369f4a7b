// Package repositories implements data access over gorm: a generic CRUD and
// soft-delete repository plus per-entity query extensions.
//
// Not found is never an error here. Lookups return nil, nil and the caller
// decides whether absence matters.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fields is an allow-listed partial update for T.
type Fields[T any] interface {
	Apply(entity *T) []models.Change
}

// UniqueKey ties a store unique index back to the business field it guards,
// so a constraint violation can be reported like the service pre-check.
type UniqueKey[T any] struct {
	Field  string
	Index  string
	Column string // table.column, as SQLite reports it
	Value  func(entity *T) string
}

type identified interface {
	GetID() uint
}

// Repository provides CRUD with soft delete for one entity type.
type Repository[T any] struct {
	db     *gorm.DB
	logger zerolog.Logger
	entity string
	keys   []UniqueKey[T]

	fkField   string
	fkMessage string
}

// NewRepository builds a repository for T. entity names T in logs and errors.
func NewRepository[T any](db *gorm.DB, logger zerolog.Logger, entity string, keys ...UniqueKey[T]) *Repository[T] {
	return &Repository[T]{
		db:     db,
		logger: logger.With().Str("entity", entity).Logger(),
		entity: entity,
		keys:   keys,
	}
}

// OnForeignKeyViolation sets the field and message reported when a write
// breaks a foreign key.
func (r *Repository[T]) OnForeignKeyViolation(field, message string) *Repository[T] {
	r.fkField = field
	r.fkMessage = message
	return r
}

// Entity is the name used for T in logs and errors.
func (r *Repository[T]) Entity() string {
	return r.entity
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	c := *r
	c.db = tx
	return &c
}

// Transaction runs fn inside a database transaction.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// GetByID returns the active entity with id, or nil.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Debug().Uint("id", id).Msg("Entity not found")
		return nil, nil
	}
	if err != nil {
		return nil, r.readFailed("get_by_id", err)
	}
	r.logger.Debug().Uint("id", id).Msg("Entity found")
	return &entity, nil
}

// GetByIDIncludingDeleted returns the entity with id whether or not it is
// soft-deleted, or nil.
func (r *Repository[T]) GetByIDIncludingDeleted(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Unscoped().First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.readFailed("get_by_id_including_deleted", err)
	}
	return &entity, nil
}

// GetAll returns every active entity ordered by id.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, r.readFailed("get_all", err)
	}
	return entities, nil
}

// FindBy returns the first active entity matching every column = value pair
// in criteria, or nil.
func (r *Repository[T]) FindBy(ctx context.Context, criteria map[string]interface{}) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Where(criteria).Order("id").First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.readFailed("find_by", err)
	}
	return &entity, nil
}

// FindAllBy returns every active entity matching criteria.
func (r *Repository[T]) FindAllBy(ctx context.Context, criteria map[string]interface{}) ([]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Where(criteria).Order("id").Find(&entities).Error; err != nil {
		return nil, r.readFailed("find_all_by", err)
	}
	return entities, nil
}

// Exists reports whether an active entity matches criteria.
func (r *Repository[T]) Exists(ctx context.Context, criteria map[string]interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where(criteria).Count(&count).Error; err != nil {
		return false, r.readFailed("exists", err)
	}
	return count > 0, nil
}

// Create builds a new entity from fields and inserts it.
func (r *Repository[T]) Create(ctx context.Context, fields Fields[T]) (*T, error) {
	entity := new(T)
	changes := fields.Apply(entity)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
	if err != nil {
		return nil, r.writeFailed("create", err, entity, changes)
	}

	r.logger.Info().Uint("id", idOf(entity)).Msg("Entity created")
	return entity, nil
}

// Update applies fields to entity and saves it. Members not present in
// fields keep their current values. If the write fails the entity is put
// back the way it was.
func (r *Repository[T]) Update(ctx context.Context, entity *T, fields Fields[T]) (*T, error) {
	before := *entity
	changes := fields.Apply(entity)
	if len(changes) == 0 {
		r.logger.Debug().Uint("id", idOf(entity)).Msg("Update with no changes")
		return entity, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
	if err != nil {
		// translate against the attempted values, then roll the struct back
		failed := r.writeFailed("update", err, entity, changes)
		*entity = before
		return nil, failed
	}

	for _, c := range changes {
		r.logger.Info().
			Uint("id", idOf(entity)).
			Str("field", c.Field).
			Interface("old", c.Old).
			Interface("new", c.New).
			Msg("Entity field updated")
	}
	return entity, nil
}

// Delete soft-deletes entity. Deleting an already deleted entity is a no-op.
func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(entity).Error
	})
	if err != nil {
		return r.writeFailed("delete", err, entity, nil)
	}
	r.logger.Warn().Uint("id", idOf(entity)).Msg("Entity soft deleted")
	return nil
}

// HardDelete permanently removes entity. There is no undo.
func (r *Repository[T]) HardDelete(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Unscoped().Delete(entity).Error
	})
	if err != nil {
		return r.writeFailed("hard_delete", err, entity, nil)
	}
	r.logger.Warn().Uint("id", idOf(entity)).Msg("Entity permanently deleted")
	return nil
}

// Restore clears the soft-delete mark and reloads entity.
func (r *Repository[T]) Restore(ctx context.Context, entity *T) (*T, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(entity).Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.First(entity).Error
	})
	if err != nil {
		return nil, r.writeFailed("restore", err, entity, nil)
	}
	r.logger.Info().Uint("id", idOf(entity)).Msg("Entity restored")
	return entity, nil
}

// GetDeleted returns every soft-deleted entity.
func (r *Repository[T]) GetDeleted(ctx context.Context) ([]T, error) {
	var entities []T
	err := r.db.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL").Order("id").Find(&entities).Error
	if err != nil {
		return nil, r.readFailed("get_deleted", err)
	}
	return entities, nil
}

// GetAllIncludingDeleted returns active and deleted entities alike.
func (r *Repository[T]) GetAllIncludingDeleted(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Unscoped().Order("id").Find(&entities).Error; err != nil {
		return nil, r.readFailed("get_all_including_deleted", err)
	}
	return entities, nil
}

func (r *Repository[T]) readFailed(op string, err error) error {
	r.logger.Error().Err(err).Str("operation", op).Msg("Query failed")
	return fmt.Errorf("%s %s failed: %w", strings.ToLower(r.entity), op, err)
}

func (r *Repository[T]) writeFailed(op string, err error, entity *T, changes []models.Change) error {
	if translated := r.translateError(err, entity); translated != nil {
		r.logger.Warn().Err(translated).Str("operation", op).Msg("Write rejected")
		return translated
	}

	event := r.logger.Error().Err(err).Str("operation", op).Uint("id", idOf(entity))
	if len(changes) > 0 {
		event = event.Interface("changes", changes)
	}
	event.Msg("Write failed, transaction rolled back")
	return fmt.Errorf("%s %s failed: %w", strings.ToLower(r.entity), op, err)
}

func idOf(entity interface{}) uint {
	if e, ok := entity.(identified); ok {
		return e.GetID()
	}
	return 0
}
