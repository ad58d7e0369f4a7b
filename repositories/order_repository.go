package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paging limits.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// DueoutLogTypes are the job types that appear on the due-out report.
var DueoutLogTypes = []string{
	models.LogTypeTransfer,
	models.LogTypeDirectPrint,
	models.LogTypeArtApproval,
	models.LogTypeDirectToFilm,
}

// sortableOrderColumns maps public sort keys to columns.
var sortableOrderColumns = map[string]string{
	"id":         "id",
	"log":        "log",
	"cust":       "cust",
	"title":      "title",
	"datin":      "datin",
	"artout":     "artout",
	"dueout":     "dueout",
	"datout":     "datout",
	"logtype":    "logtype",
	"rush":       "rush",
	"print_n":    "print_n",
	"total":      "total",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// OrderRepository adds order lookups, search and reporting to Repository.
type OrderRepository struct {
	*Repository[models.Order]
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB, logger zerolog.Logger) *OrderRepository {
	base := NewRepository(db, logger, "Order", UniqueKey[models.Order]{
		Field:  "log",
		Index:  "idx_orders_log_active",
		Column: "orders.log",
		Value:  func(o *models.Order) string { return o.Log },
	})
	base.OnForeignKeyViolation("cust", "Customer does not exist")
	return &OrderRepository{Repository: base}
}

// WithTx returns a copy of the repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{Repository: r.Repository.WithTx(tx)}
}

// GetByLog returns the active order with log number log, or nil.
func (r *OrderRepository) GetByLog(ctx context.Context, log string) (*models.Order, error) {
	return r.FindBy(ctx, map[string]interface{}{"log": log})
}

// GetByLogIncludingDeleted also considers soft-deleted orders.
func (r *OrderRepository) GetByLogIncludingDeleted(ctx context.Context, log string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Unscoped().Where("log = ?", log).Order("deleted_at IS NOT NULL, id").First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.readFailed("get_by_log", err)
	}
	return &order, nil
}

// GetByCustomer returns the active orders of one customer, newest first.
func (r *OrderRepository) GetByCustomer(ctx context.Context, cust string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("cust = ?", cust).Order("datin DESC").Order("id DESC").Find(&orders).Error
	if err != nil {
		return nil, r.readFailed("get_by_customer", err)
	}
	return orders, nil
}

// Search returns active orders whose customer code contains cust and whose
// title contains title, case-insensitively. Empty arguments match anything.
func (r *OrderRepository) Search(ctx context.Context, cust, title string) ([]models.Order, error) {
	db := r.db.Model(&models.Order{})
	if cust = strings.TrimSpace(cust); cust != "" {
		db = db.Where("LOWER(cust) LIKE LOWER(?)", "%"+cust+"%")
	}
	if title = strings.TrimSpace(title); title != "" {
		db = db.Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%")
	}

	orders, err := (&OrderQuery{repo: r, db: db}).All(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("cust", cust).Str("title", title).Int("results", len(orders)).Msg("Order search")
	return orders, nil
}

// Filter starts a lazy query over active orders whose customer code or
// title contains search. An empty search matches everything. Nothing runs
// until All or Paginate is called.
func (r *OrderRepository) Filter(search string) *OrderQuery {
	db := r.db.Model(&models.Order{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		db = db.Where("LOWER(cust) LIKE LOWER(?) OR LOWER(title) LIKE LOWER(?)", like, like)
	}
	return &OrderQuery{repo: r, db: db}
}

// ApplySort orders q by a comma separated list of sort keys, each optionally
// prefixed with "-" for descending. Unknown keys make the query fail with a
// validation error on "sort".
func (r *OrderRepository) ApplySort(q *OrderQuery, sort string) *OrderQuery {
	if q.err != nil || strings.TrimSpace(sort) == "" {
		return q
	}

	db := q.chain()
	applied := false
	for _, key := range strings.Split(sort, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		desc := strings.HasPrefix(key, "-")
		name := strings.TrimPrefix(key, "-")
		column, ok := sortableOrderColumns[name]
		if !ok {
			return &OrderQuery{repo: q.repo, db: q.db, err: apperrors.NewValidationError("Order", map[string]string{
				"sort": fmt.Sprintf("Cannot sort by %q", name),
			})}
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
		applied = true
	}
	return &OrderQuery{repo: q.repo, db: db, sorted: applied}
}

// GetDueouts returns unshipped orders of the due-out job types with a due
// date inside [start, end], soonest first. Either bound may be nil.
func (r *OrderRepository) GetDueouts(ctx context.Context, start, end *time.Time) ([]models.Order, error) {
	db := r.db.WithContext(ctx).
		Where("logtype IN ?", DueoutLogTypes).
		Where("datout IS NULL").
		Where("dueout IS NOT NULL")
	if start != nil {
		db = db.Where("dueout >= ?", validation.DateOnly(*start))
	}
	if end != nil {
		db = db.Where("dueout <= ?", validation.DateOnly(*end))
	}

	var orders []models.Order
	if err := db.Order("dueout ASC").Order("log ASC").Find(&orders).Error; err != nil {
		return nil, r.readFailed("get_dueouts", err)
	}
	return orders, nil
}

// Paginate runs q for one page; see OrderQuery.Paginate.
func (r *OrderRepository) Paginate(ctx context.Context, q *OrderQuery, page, perPage int) (*Page[models.Order], error) {
	return q.Paginate(ctx, page, perPage)
}

// OrderQuery is a lazily evaluated order listing.
type OrderQuery struct {
	repo   *OrderRepository
	db     *gorm.DB
	err    error
	sorted bool
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

// All runs the query.
func (q *OrderQuery) All(ctx context.Context) ([]models.Order, error) {
	if q.err != nil {
		return nil, q.err
	}
	db := q.chain().WithContext(ctx)
	if !q.sorted {
		db = db.Order("datin DESC").Order("cust DESC")
	}

	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		return nil, q.repo.readFailed("filter", err)
	}
	return orders, nil
}

// Paginate runs the query for one page. page is clamped to at least 1 and
// perPage to 1..MaxPerPage, with DefaultPerPage when not positive.
func (q *OrderQuery) Paginate(ctx context.Context, page, perPage int) (*Page[models.Order], error) {
	if q.err != nil {
		return nil, q.err
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	var total int64
	if err := q.chain().WithContext(ctx).Count(&total).Error; err != nil {
		return nil, q.repo.readFailed("paginate", err)
	}

	db := q.chain().WithContext(ctx)
	if !q.sorted {
		db = db.Order("id")
	}
	var orders []models.Order
	if err := db.Offset((page - 1) * perPage).Limit(perPage).Find(&orders).Error; err != nil {
		return nil, q.repo.readFailed("paginate", err)
	}

	return &Page[models.Order]{
		Items:   orders,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

// chain returns a handle whose further clauses do not leak back into q.
func (q *OrderQuery) chain() *gorm.DB {
	return q.db.Session(&gorm.Session{})
}
