package services

import (
	"context"
	"testing"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerServiceCreate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	t.Run("code and name are required", func(t *testing.T) {
		_, err := s.customers.CreateCustomer(ctx, models.CustomerFields{})
		errs := validationFields(t, err)
		assert.Contains(t, errs, "cust_id")
		assert.Contains(t, errs, "customer")
	})

	t.Run("invalid contact details", func(t *testing.T) {
		_, err := s.customers.CreateCustomer(ctx, models.CustomerFields{
			CustID:        ptr("ACME1"),
			Customer:      ptr("Acme"),
			Zip:           models.Some("ABCDE"),
			Telephone1:    models.Some("555"),
			CustomerEmail: models.Some("not-an-email"),
		})
		errs := validationFields(t, err)
		assert.Equal(t, "Invalid ZIP code format", errs["zip"])
		assert.Equal(t, "Invalid phone number format", errs["telephone_1"])
		assert.Equal(t, "Invalid email format", errs["customer_email"])
	})

	c := s.customer(t, "ACME1")

	t.Run("active duplicate", func(t *testing.T) {
		_, err := s.customers.CreateCustomer(ctx, models.CustomerFields{CustID: ptr("ACME1"), Customer: ptr("Again")})
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "cust_id", ce.Field)
		assert.Empty(t, ce.Hint)
	})

	t.Run("deleted duplicate suggests restore", func(t *testing.T) {
		require.NoError(t, s.customers.DeleteCustomer(ctx, c))
		_, err := s.customers.CreateCustomer(ctx, models.CustomerFields{CustID: ptr("ACME1"), Customer: ptr("Again")})
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Contains(t, ce.Error(), "restore")
	})
}

func TestCustomerServiceLifecycle(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	c := s.customer(t, "ACME1")

	updated, err := s.customers.UpdateCustomer(ctx, c, models.CustomerFields{City: models.Some("Springfield")})
	require.NoError(t, err)
	require.NotNil(t, updated.City)
	assert.Equal(t, "Springfield", *updated.City)

	byCode, err := s.customers.GetCustomerByCustID(ctx, "ACME1")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, c.ID, byCode.ID)

	require.NoError(t, s.customers.DeleteCustomer(ctx, c))
	require.NoError(t, s.customers.DeleteCustomer(ctx, c))

	gone, err := s.customers.GetCustomerByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err := s.customers.GetDeletedCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	_, err = s.customers.RestoreCustomer(ctx, c)
	require.NoError(t, err)

	back, err := s.customers.GetCustomerByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, "Springfield", *back.City)

	all, err := s.customers.GetAllCustomersIncludingDeleted(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCustomerServiceSearch(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.customer(t, "ACME1")
	s.customer(t, "BETA2")

	found, err := s.customers.SearchCustomers(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ACME1", found[0].CustID)

	found, err = s.customers.SearchCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := s.customers.GetAllCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCustomerServiceHardDeleteWithOrders(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	c := s.customer(t, "12345")
	_, err := s.orders.CreateOrder(ctx, newOrder("12345", "12345"))
	require.NoError(t, err)

	err = s.customers.HardDeleteCustomer(ctx, c)
	errs := validationFields(t, err)
	assert.Contains(t, errs, "cust_id")
}
