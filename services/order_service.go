package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/rs/zerolog"
)

// OrderService holds the business rules for orders.
type OrderService struct {
	*BaseService[models.Order, models.OrderFields]
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
	logger    zerolog.Logger
}

// NewOrderService creates an order service. customers is used to check that
// an order references an active customer.
func NewOrderService(orders *repositories.OrderRepository, customers *repositories.CustomerRepository, logger zerolog.Logger) *OrderService {
	s := &OrderService{
		orders:    orders,
		customers: customers,
		logger:    logger.With().Str("service", "order").Logger(),
	}
	s.BaseService = NewBaseService[models.Order, models.OrderFields](orders.Repository, s.validate, sanitizeStrings[models.OrderFields], logger, "Order")
	return s
}

// GetOrderByID returns the active order with id, or nil.
func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.GetByID(ctx, id)
}

// GetOrderByLog returns the active order with log number log, or nil.
func (s *OrderService) GetOrderByLog(ctx context.Context, log string) (*models.Order, error) {
	return s.orders.GetByLog(ctx, log)
}

// GetOrderByLogIncludingDeleted prefers the active order with log and falls
// back to the earliest soft-deleted one, or nil.
func (s *OrderService) GetOrderByLogIncludingDeleted(ctx context.Context, log string) (*models.Order, error) {
	return s.orders.GetByLogIncludingDeleted(ctx, log)
}

// GetAllOrders returns every active order.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.GetAll(ctx)
}

// CreateOrder validates fields and inserts a new order. A log number that
// is already in use by an active order is a *apperrors.ConflictError.
func (s *OrderService) CreateOrder(ctx context.Context, fields models.OrderFields) (*models.Order, error) {
	return s.Create(ctx, fields)
}

// UpdateOrder applies fields to order.
func (s *OrderService) UpdateOrder(ctx context.Context, order *models.Order, fields models.OrderFields) (*models.Order, error) {
	return s.Update(ctx, order, fields)
}

// DeleteOrder soft-deletes order.
func (s *OrderService) DeleteOrder(ctx context.Context, order *models.Order) error {
	return s.Delete(ctx, order)
}

// HardDeleteOrder permanently removes order.
func (s *OrderService) HardDeleteOrder(ctx context.Context, order *models.Order) error {
	return s.HardDelete(ctx, order)
}

// RestoreOrder undoes a soft delete.
func (s *OrderService) RestoreOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return s.Restore(ctx, order)
}

// GetDeletedOrders returns every soft-deleted order.
func (s *OrderService) GetDeletedOrders(ctx context.Context) ([]models.Order, error) {
	return s.GetDeleted(ctx)
}

// GetAllOrdersIncludingDeleted returns active and deleted orders.
func (s *OrderService) GetAllOrdersIncludingDeleted(ctx context.Context) ([]models.Order, error) {
	return s.GetAllIncludingDeleted(ctx)
}

// SearchOrders matches orders by customer code and title.
func (s *OrderService) SearchOrders(ctx context.Context, cust, title string) ([]models.Order, error) {
	return s.orders.Search(ctx, s.SanitizeSearchInput(cust), s.SanitizeSearchInput(title))
}

// FilterOrders starts a lazy listing of orders whose customer code or title
// contains search.
func (s *OrderService) FilterOrders(search string) *repositories.OrderQuery {
	return s.orders.Filter(s.SanitizeSearchInput(search))
}

// OrderQuery applies a sort expression such as "-dueout,log" to q.
func (s *OrderService) OrderQuery(q *repositories.OrderQuery, sort string) *repositories.OrderQuery {
	return s.orders.ApplySort(q, sort)
}

// PaginateQuery runs q for one page.
func (s *OrderService) PaginateQuery(ctx context.Context, q *repositories.OrderQuery, page, perPage int) (*repositories.Page[models.Order], error) {
	return s.orders.Paginate(ctx, q, page, perPage)
}

// GetDueouts returns the open orders due within [start, end]. Either bound
// may be nil.
func (s *OrderService) GetDueouts(ctx context.Context, start, end *time.Time) ([]models.Order, error) {
	if !validation.ValidateDateRange(start, end) {
		return nil, apperrors.NewValidationError("Order", map[string]string{
			"end_date": "End date must be on or after start date",
		})
	}
	orders, err := s.orders.GetDueouts(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error getting due-out orders")
		return nil, err
	}
	return orders, nil
}

// CheckOrderExists reports whether an active order uses log. It is a
// courtesy check; the unique index decides.
func (s *OrderService) CheckOrderExists(ctx context.Context, log string) (bool, error) {
	return s.orders.Exists(ctx, map[string]interface{}{"log": log})
}

func (s *OrderService) validate(ctx context.Context, fields *models.OrderFields, current *models.Order) error {
	order := candidate(*fields, current)
	errs := entityErrors(order)

	if fields.PrintN.Set && !validation.ValidateNumberRange(fields.PrintN.Value, validation.Float(1), nil) {
		errs["print_n"] = "Quantity must be a positive number"
	}
	if fields.Prior.Set && fields.Prior.Value != nil {
		prior := float64(*fields.Prior.Value)
		if !validation.ValidateNumberRange(&prior, validation.Float(1), validation.Float(10)) {
			errs["prior"] = "Priority must be between 1 and 10"
		}
	}

	custChanged := current == nil || current.Cust != order.Cust
	if _, bad := errs["cust"]; !bad && custChanged {
		customer, err := s.customers.GetByCustID(ctx, order.Cust)
		if err != nil {
			return err
		}
		if customer == nil {
			errs["cust"] = fmt.Sprintf("Customer %s does not exist", order.Cust)
		}
	}

	if err := validationError("Order", errs); err != nil {
		return err
	}

	if current == nil || current.Log != order.Log {
		exists, err := s.CheckOrderExists(ctx, order.Log)
		if err != nil {
			return err
		}
		if exists {
			return &apperrors.ConflictError{Entity: "Order", Field: "log", Value: order.Log}
		}
	}
	return nil
}
