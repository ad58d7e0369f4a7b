package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// CustomerRepository adds customer-code lookups and search to Repository.
type CustomerRepository struct {
	*Repository[models.Customer]
}

// NewCustomerRepository creates a customer repository.
func NewCustomerRepository(db *gorm.DB, logger zerolog.Logger) *CustomerRepository {
	base := NewRepository(db, logger, "Customer", UniqueKey[models.Customer]{
		Field:  "cust_id",
		Index:  "idx_customers_cust_id",
		Column: "customers.cust_id",
		Value:  func(c *models.Customer) string { return c.CustID },
	})
	base.OnForeignKeyViolation("cust_id", "Customer still has orders")
	return &CustomerRepository{Repository: base}
}

// WithTx returns a copy of the repository bound to tx.
func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{Repository: r.Repository.WithTx(tx)}
}

// GetByCustID returns the active customer with code custID, or nil.
func (r *CustomerRepository) GetByCustID(ctx context.Context, custID string) (*models.Customer, error) {
	return r.FindBy(ctx, map[string]interface{}{"cust_id": custID})
}

// GetByCustIDIncludingDeleted also considers soft-deleted customers.
func (r *CustomerRepository) GetByCustIDIncludingDeleted(ctx context.Context, custID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Unscoped().Where("cust_id = ?", custID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.readFailed("get_by_cust_id", err)
	}
	return &customer, nil
}

// Search returns active customers whose code or name contains term,
// case-insensitively, ordered by name.
func (r *CustomerRepository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	db := r.db.WithContext(ctx)
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + term + "%"
		db = db.Where("LOWER(customer) LIKE LOWER(?) OR LOWER(cust_id) LIKE LOWER(?)", like, like)
	}

	var customers []models.Customer
	if err := db.Order("customer").Order("cust_id").Find(&customers).Error; err != nil {
		return nil, r.readFailed("search", err)
	}
	return customers, nil
}
