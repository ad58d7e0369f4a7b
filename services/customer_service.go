package services

import (
	"context"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/rs/zerolog"
)

// CustomerService holds the business rules for customers.
type CustomerService struct {
	*BaseService[models.Customer, models.CustomerFields]
	customers *repositories.CustomerRepository
}

// NewCustomerService creates a customer service.
func NewCustomerService(customers *repositories.CustomerRepository, logger zerolog.Logger) *CustomerService {
	s := &CustomerService{customers: customers}
	s.BaseService = NewBaseService[models.Customer, models.CustomerFields](
		customers.Repository, s.validate, sanitizeStrings[models.CustomerFields], logger, "Customer")
	return s
}

// GetCustomerByID returns the active customer with id, or nil.
func (s *CustomerService) GetCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	return s.GetByID(ctx, id)
}

// GetCustomerByCustID returns the active customer with code custID, or nil.
func (s *CustomerService) GetCustomerByCustID(ctx context.Context, custID string) (*models.Customer, error) {
	return s.customers.GetByCustID(ctx, custID)
}

// GetAllCustomers returns every active customer.
func (s *CustomerService) GetAllCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.GetAll(ctx)
}

// CreateCustomer validates fields and inserts a new customer. Customer
// codes are never reused, so a code held by a deleted customer is a
// conflict too.
func (s *CustomerService) CreateCustomer(ctx context.Context, fields models.CustomerFields) (*models.Customer, error) {
	return s.Create(ctx, fields)
}

// UpdateCustomer applies fields to customer.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *models.Customer, fields models.CustomerFields) (*models.Customer, error) {
	return s.Update(ctx, customer, fields)
}

// DeleteCustomer soft-deletes customer. Its orders are left alone.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customer *models.Customer) error {
	return s.Delete(ctx, customer)
}

// HardDeleteCustomer permanently removes customer. It fails while any order
// still references the customer code.
func (s *CustomerService) HardDeleteCustomer(ctx context.Context, customer *models.Customer) error {
	return s.HardDelete(ctx, customer)
}

// RestoreCustomer undoes a soft delete.
func (s *CustomerService) RestoreCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return s.Restore(ctx, customer)
}

// GetDeletedCustomers returns every soft-deleted customer.
func (s *CustomerService) GetDeletedCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.GetDeleted(ctx)
}

// GetAllCustomersIncludingDeleted returns active and deleted customers.
func (s *CustomerService) GetAllCustomersIncludingDeleted(ctx context.Context) ([]models.Customer, error) {
	return s.GetAllIncludingDeleted(ctx)
}

// SearchCustomers matches customers by name or code. An empty term returns
// every active customer.
func (s *CustomerService) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	return s.customers.Search(ctx, s.SanitizeSearchInput(term))
}

func (s *CustomerService) validate(ctx context.Context, fields *models.CustomerFields, current *models.Customer) error {
	customer := candidate(*fields, current)
	if err := validationError("Customer", entityErrors(customer)); err != nil {
		return err
	}

	if current != nil && current.CustID == customer.CustID {
		return nil
	}
	existing, err := s.customers.GetByCustIDIncludingDeleted(ctx, customer.CustID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	conflict := &apperrors.ConflictError{Entity: "Customer", Field: "cust_id", Value: customer.CustID}
	if existing.IsDeleted() {
		conflict.Hint = "the customer was deleted; restore it instead"
	}
	return conflict
}
