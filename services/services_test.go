package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/kendall-kelly/printshop-orders/tests/testutil"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if code := testutil.CheckTestEnvironment(); code != 0 {
		os.Exit(code)
	}
	os.Exit(m.Run())
}

func ptr[T any](v T) *T { return &v }

func day(n int) time.Time {
	return validation.Today().AddDate(0, 0, n)
}

type testServices struct {
	orders    *OrderService
	customers *CustomerService
	users     *UserService
}

func newTestServices(t *testing.T) testServices {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger()
	customerRepo := repositories.NewCustomerRepository(db, log)
	return testServices{
		orders:    NewOrderService(repositories.NewOrderRepository(db, log), customerRepo, log),
		customers: NewCustomerService(customerRepo, log),
		users:     NewUserService(repositories.NewUserRepository(db, log), log),
	}
}

func (s testServices) customer(t *testing.T, custID string) *models.Customer {
	c, err := s.customers.CreateCustomer(context.Background(), models.CustomerFields{
		CustID:   ptr(custID),
		Customer: ptr("Customer " + custID),
	})
	require.NoError(t, err)
	return c
}

func newOrder(log, cust string) models.OrderFields {
	return models.OrderFields{
		Log:     ptr(log),
		Cust:    ptr(cust),
		Title:   ptr("T"),
		Datin:   models.Some(day(0)),
		Dueout:  models.Some(day(7)),
		Logtype: models.Some(models.LogTypeTransfer),
	}
}

// fixClock moves "today" by days for the rest of the test.
func fixClock(t *testing.T, days int) {
	t.Helper()
	orig := validation.Now
	validation.Now = func() time.Time { return time.Now().AddDate(0, 0, days) }
	t.Cleanup(func() { validation.Now = orig })
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestSanitizeSearchInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims", "  shirts  ", "shirts"},
		{"escapes", "<b>", "&lt;b&gt;"},
		{"empty", "", ""},
		{"truncates", strings.Repeat("é", 150), strings.Repeat("é", MaxSearchLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSearchInput(tt.input))
		})
	}
}
