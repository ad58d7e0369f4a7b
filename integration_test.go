package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/printshop-orders/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Print Shop Orders API is running", response["message"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), "every response carries a request ID")
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")
}

func TestProtectedRoutesRequireCredentials(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/v1/auth/me",
		"/api/v1/orders",
		"/api/v1/orders/dueouts",
		"/api/v1/customers",
		"/api/v1/users",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "printshop_http_requests_total", "HTTP counters are exported")
	assert.Contains(t, body, `route="/api/v1/health"`)
}
