package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/services"
	"github.com/rs/zerolog"
)

// CustomerController serves the /customers routes.
type CustomerController struct {
	customers *services.CustomerService
	logger    zerolog.Logger
}

// NewCustomerController creates a CustomerController.
func NewCustomerController(customers *services.CustomerService, logger zerolog.Logger) *CustomerController {
	return &CustomerController{customers: customers, logger: logger}
}

// ListCustomers handles GET /api/v1/customers
func (cc *CustomerController) ListCustomers(c *gin.Context) {
	customers, err := cc.customers.GetAllCustomers(c.Request.Context())
	if err != nil {
		respondError(c, cc.logger, "list customers", err)
		return
	}
	respondSuccess(c, http.StatusOK, customers)
}

// SearchCustomers handles GET /api/v1/customers/search?q=term
func (cc *CustomerController) SearchCustomers(c *gin.Context) {
	customers, err := cc.customers.SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, cc.logger, "search customers", err)
		return
	}
	respondSuccess(c, http.StatusOK, customers)
}

// GetCustomer handles GET /api/v1/customers/:id
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, ok := cc.load(c, false)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, customer)
}

// GetCustomerByCustID handles GET /api/v1/customers/cust_id/:cust_id
func (cc *CustomerController) GetCustomerByCustID(c *gin.Context) {
	customer, err := cc.customers.GetCustomerByCustID(c.Request.Context(), c.Param("cust_id"))
	if err != nil {
		respondError(c, cc.logger, "retrieve customer", err)
		return
	}
	if customer == nil {
		respondNotFound(c, "Customer")
		return
	}
	respondSuccess(c, http.StatusOK, customer)
}

// CreateCustomer handles POST /api/v1/customers
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var fields models.CustomerFields
	if !decodeJSON(c, &fields) {
		return
	}
	customer, err := cc.customers.CreateCustomer(c.Request.Context(), fields)
	if err != nil {
		respondError(c, cc.logger, "create customer", err)
		return
	}
	respondSuccess(c, http.StatusCreated, customer)
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	customer, ok := cc.load(c, false)
	if !ok {
		return
	}
	var fields models.CustomerFields
	if !decodeJSON(c, &fields) {
		return
	}
	updated, err := cc.customers.UpdateCustomer(c.Request.Context(), customer, fields)
	if err != nil {
		respondError(c, cc.logger, "update customer", err)
		return
	}
	respondSuccess(c, http.StatusOK, updated)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id (soft delete)
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	customer, ok := cc.load(c, false)
	if !ok {
		return
	}
	if err := cc.customers.DeleteCustomer(c.Request.Context(), customer); err != nil {
		respondError(c, cc.logger, "delete customer", err)
		return
	}
	respondMessage(c, "Customer deleted")
}

// RestoreCustomer handles POST /api/v1/customers/:id/restore (admin)
func (cc *CustomerController) RestoreCustomer(c *gin.Context) {
	customer, ok := cc.load(c, true)
	if !ok {
		return
	}
	restored, err := cc.customers.RestoreCustomer(c.Request.Context(), customer)
	if err != nil {
		respondError(c, cc.logger, "restore customer", err)
		return
	}
	respondSuccess(c, http.StatusOK, restored)
}

// HardDeleteCustomer handles DELETE /api/v1/customers/:id/hard (admin)
func (cc *CustomerController) HardDeleteCustomer(c *gin.Context) {
	customer, ok := cc.load(c, true)
	if !ok {
		return
	}
	if err := cc.customers.HardDeleteCustomer(c.Request.Context(), customer); err != nil {
		respondError(c, cc.logger, "permanently delete customer", err)
		return
	}
	respondMessage(c, "Customer permanently deleted")
}

// ListDeletedCustomers handles GET /api/v1/customers/deleted (admin)
func (cc *CustomerController) ListDeletedCustomers(c *gin.Context) {
	customers, err := cc.customers.GetDeletedCustomers(c.Request.Context())
	if err != nil {
		respondError(c, cc.logger, "list deleted customers", err)
		return
	}
	respondSuccess(c, http.StatusOK, customers)
}

func (cc *CustomerController) load(c *gin.Context, includeDeleted bool) (*models.Customer, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	var (
		customer *models.Customer
		err      error
	)
	if includeDeleted {
		customer, err = cc.customers.GetByIDIncludingDeleted(c.Request.Context(), id)
	} else {
		customer, err = cc.customers.GetCustomerByID(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, cc.logger, "retrieve customer", err)
		return nil, false
	}
	if customer == nil {
		respondNotFound(c, "Customer")
		return nil, false
	}
	return customer, true
}
