package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/printshop-orders/config"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/kendall-kelly/printshop-orders/services"
	"github.com/kendall-kelly/printshop-orders/tests/testutil"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/stretchr/testify/suite"
)

const acceptancePassword = "front-desk-pass"

// OrderWorkflowSuite drives a running server the way the front desk would:
// a manager registers staff, staff book customers and orders, and the
// due-out report reflects what ships next.
type OrderWorkflowSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
}

func (s *OrderWorkflowSuite) SetupTest() {
	db := testutil.NewTestDB(s.T())
	log := testutil.NewTestLogger()

	users := services.NewUserService(repositories.NewUserRepository(db, log), log)
	_, err := users.CreateUser(context.Background(), "manager", "manager@example.com", acceptancePassword, models.RoleAdmin)
	s.Require().NoError(err)

	router := setupRouter(db, &config.Config{CORSAllowedOrigins: []string{"*"}}, log)
	s.server = httptest.NewServer(router)
	s.client = s.server.Client()
}

func (s *OrderWorkflowSuite) TearDownTest() {
	s.server.Close()
}

type apiResponse struct {
	status  int
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (s *OrderWorkflowSuite) call(method, path, username string, body interface{}, out interface{}) apiResponse {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, payload)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.SetBasicAuth(username, acceptancePassword)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var result apiResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&result))
	result.status = resp.StatusCode
	if out != nil && len(result.Data) > 0 {
		s.Require().NoError(json.Unmarshal(result.Data, out))
	}
	return result
}

func (s *OrderWorkflowSuite) TestFrontDeskDay() {
	day := func(n int) string {
		return validation.Today().AddDate(0, 0, n).Format(validation.DateLayout)
	}

	res := s.call(http.MethodPost, "/api/v1/users", "manager", map[string]string{
		"username": "desk", "email": "desk@example.com", "password": acceptancePassword,
	}, nil)
	s.Require().Equal(http.StatusCreated, res.status)

	var me models.User
	res = s.call(http.MethodGet, "/api/v1/auth/me", "desk", nil, &me)
	s.Require().Equal(http.StatusOK, res.status)
	s.Equal(models.RoleUser, me.Role)

	res = s.call(http.MethodPost, "/api/v1/customers", "desk", map[string]string{
		"cust_id": "HS001", "customer": "Hillside Soccer",
	}, nil)
	s.Require().Equal(http.StatusCreated, res.status)

	orders := []map[string]interface{}{
		{"log": "24001", "cust": "HS001", "title": "Home jerseys", "datin": day(0), "dueout": day(3), "logtype": "DTF", "rush": true},
		{"log": "24002", "cust": "HS001", "title": "Away jerseys", "datin": day(0), "dueout": day(10), "logtype": "TR"},
		{"log": "24003", "cust": "HS001", "title": "Banner", "datin": day(0), "dueout": day(2), "logtype": "VG"},
	}
	ids := make(map[string]uint)
	for _, o := range orders {
		var created models.Order
		res = s.call(http.MethodPost, "/api/v1/orders", "desk", o, &created)
		s.Require().Equal(http.StatusCreated, res.status)
		ids[created.Log] = created.ID
	}

	var due []models.Order
	res = s.call(http.MethodGet, "/api/v1/orders/dueouts?start_date="+day(0)+"&end_date="+day(7), "desk", nil, &due)
	s.Require().Equal(http.StatusOK, res.status)
	s.Require().Len(due, 1, "vinyl orders and orders beyond the window are not due out")
	s.Equal("24001", due[0].Log)
	s.True(due[0].Rush)

	res = s.call(http.MethodPut, fmt.Sprintf("/api/v1/orders/%d", ids["24001"]), "desk", map[string]string{"datout": day(0)}, nil)
	s.Require().Equal(http.StatusOK, res.status)

	res = s.call(http.MethodGet, "/api/v1/orders/dueouts?start_date="+day(0)+"&end_date="+day(7), "desk", nil, &due)
	s.Require().Equal(http.StatusOK, res.status)
	s.Empty(due, "shipped orders drop off the report")

	res = s.call(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", ids["24002"]), "desk", nil, nil)
	s.Require().Equal(http.StatusOK, res.status)

	var page repositories.Page[models.Order]
	res = s.call(http.MethodGet, "/api/v1/orders?search=jerseys", "desk", nil, &page)
	s.Require().Equal(http.StatusOK, res.status)
	s.Equal(int64(1), page.Total)

	res = s.call(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/restore", ids["24002"]), "desk", nil, nil)
	s.Equal(http.StatusForbidden, res.status)
	s.Equal("INSUFFICIENT_ROLE", res.Error.Code)

	res = s.call(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/restore", ids["24002"]), "manager", nil, nil)
	s.Require().Equal(http.StatusOK, res.status)

	res = s.call(http.MethodGet, "/api/v1/orders?search=jerseys", "desk", nil, &page)
	s.Require().Equal(http.StatusOK, res.status)
	s.Equal(int64(2), page.Total)
}

func TestOrderWorkflowSuite(t *testing.T) {
	suite.Run(t, new(OrderWorkflowSuite))
}
