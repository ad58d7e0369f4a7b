package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/metrics"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/rs/zerolog"
)

// MaxSearchLength caps user-supplied search terms, in runes.
const MaxSearchLength = 100

// ValidatorFunc checks fields before they are written. current is nil on
// create. It returns a *apperrors.ValidationError for bad input and may
// return a *apperrors.ConflictError when a business key is taken.
type ValidatorFunc[T, F any] func(ctx context.Context, fields *F, current *T) error

// SanitizerFunc cleans fields in place before validation.
type SanitizerFunc[F any] func(fields *F)

// BaseService runs sanitize, validate and persist for one entity type and
// records an outcome metric for every write.
type BaseService[T any, F repositories.Fields[T]] struct {
	repo     *repositories.Repository[T]
	validate ValidatorFunc[T, F]
	sanitize SanitizerFunc[F]
	logger   zerolog.Logger
	entity   string
}

// NewBaseService wires a BaseService. validate and sanitize may be nil.
func NewBaseService[T any, F repositories.Fields[T]](
	repo *repositories.Repository[T],
	validate ValidatorFunc[T, F],
	sanitize SanitizerFunc[F],
	logger zerolog.Logger,
	entity string,
) *BaseService[T, F] {
	return &BaseService[T, F]{
		repo:     repo,
		validate: validate,
		sanitize: sanitize,
		logger:   logger.With().Str("service", strings.ToLower(entity)).Logger(),
		entity:   entity,
	}
}

// GetByID returns the active entity with id, or nil.
func (s *BaseService[T, F]) GetByID(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Uint("id", id).Msgf("Error getting %s by ID", s.entity)
		return nil, err
	}
	if entity == nil {
		s.logger.Warn().Uint("id", id).Msgf("%s not found", s.entity)
	}
	return entity, nil
}

// GetByIDIncludingDeleted also finds soft-deleted entities; restore and
// hard delete start from it.
func (s *BaseService[T, F]) GetByIDIncludingDeleted(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Uint("id", id).Msgf("Error getting %s by ID", s.entity)
		return nil, err
	}
	return entity, nil
}

// GetAll returns every active entity.
func (s *BaseService[T, F]) GetAll(ctx context.Context) ([]T, error) {
	return s.list(s.repo.GetAll(ctx))
}

// GetDeleted returns every soft-deleted entity.
func (s *BaseService[T, F]) GetDeleted(ctx context.Context) ([]T, error) {
	return s.list(s.repo.GetDeleted(ctx))
}

// GetAllIncludingDeleted returns active and deleted entities.
func (s *BaseService[T, F]) GetAllIncludingDeleted(ctx context.Context) ([]T, error) {
	return s.list(s.repo.GetAllIncludingDeleted(ctx))
}

// Create sanitizes and validates fields, then inserts a new entity. Invalid
// input never reaches the repository.
func (s *BaseService[T, F]) Create(ctx context.Context, fields F) (*T, error) {
	if err := s.prepare(ctx, &fields, nil); err != nil {
		s.logger.Warn().Err(err).Msgf("Invalid data for %s creation", s.entity)
		s.record("create", err)
		return nil, err
	}

	entity, err := s.repo.Create(ctx, fields)
	s.record("create", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Msgf("Created new %s", s.entity)
	return entity, nil
}

// Update sanitizes and validates fields against entity, then saves.
func (s *BaseService[T, F]) Update(ctx context.Context, entity *T, fields F) (*T, error) {
	if err := s.prepare(ctx, &fields, entity); err != nil {
		s.logger.Warn().Err(err).Msgf("Invalid data for %s update", s.entity)
		s.record("update", err)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, entity, fields)
	s.record("update", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Msgf("Updated %s", s.entity)
	return updated, nil
}

// Delete soft-deletes entity.
func (s *BaseService[T, F]) Delete(ctx context.Context, entity *T) error {
	err := s.repo.Delete(ctx, entity)
	s.record("delete", err)
	return err
}

// HardDelete permanently removes entity.
func (s *BaseService[T, F]) HardDelete(ctx context.Context, entity *T) error {
	err := s.repo.HardDelete(ctx, entity)
	s.record("hard_delete", err)
	return err
}

// Restore undoes a soft delete.
func (s *BaseService[T, F]) Restore(ctx context.Context, entity *T) (*T, error) {
	restored, err := s.repo.Restore(ctx, entity)
	s.record("restore", err)
	return restored, err
}

// SanitizeSearchInput trims and escapes a search term and truncates it to
// MaxSearchLength runes.
func (s *BaseService[T, F]) SanitizeSearchInput(term string) string {
	return SanitizeSearchInput(term)
}

// SanitizeSearchInput is the package-level form of
// BaseService.SanitizeSearchInput.
func SanitizeSearchInput(term string) string {
	clean := validation.SanitizeString(term)
	if utf8.RuneCountInString(clean) <= MaxSearchLength {
		return clean
	}
	return string([]rune(clean)[:MaxSearchLength])
}

func (s *BaseService[T, F]) prepare(ctx context.Context, fields *F, current *T) error {
	if s.sanitize != nil {
		s.sanitize(fields)
	}
	if s.validate != nil {
		return s.validate(ctx, fields, current)
	}
	return nil
}

func (s *BaseService[T, F]) list(entities []T, err error) ([]T, error) {
	if err != nil {
		s.logger.Error().Err(err).Msgf("Error listing %s records", s.entity)
		return nil, err
	}
	return entities, nil
}

func (s *BaseService[T, F]) record(operation string, err error) {
	metrics.RecordOperation(s.entity, operation, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case apperrors.IsValidation(err):
		return metrics.OutcomeInvalid
	case apperrors.IsConflict(err):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

// stringFields is implemented by the pointer form of every Fields type.
type stringFields[F any] interface {
	*F
	Strings() []**string
}

// sanitizeStrings runs validation.SanitizeString over every free-text
// member of fields.
func sanitizeStrings[F any, PF stringFields[F]](fields *F) {
	for _, p := range PF(fields).Strings() {
		*p = validation.SanitizeStringPtr(*p)
	}
}

// candidate returns a copy of current (or a zero T) with fields applied,
// for validation before anything is written.
func candidate[T any, F repositories.Fields[T]](fields F, current *T) *T {
	var c T
	if current != nil {
		c = *current
	}
	fields.Apply(&c)
	return &c
}

type dataValidator interface {
	ValidateData() map[string]string
}

// entityErrors runs the entity's own rule table on v.
func entityErrors(v dataValidator) map[string]string {
	errs := v.ValidateData()
	if errs == nil {
		errs = map[string]string{}
	}
	return errs
}

// validationError converts errs to an error, or nil when errs is empty.
func validationError(entity string, errs map[string]string) error {
	if ve := apperrors.NewValidationError(entity, errs); ve != nil {
		return ve
	}
	return nil
}
