package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizdesk/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:               "8080",
		StorageDriver:      config.StorageMemory,
		CORSAllowedOrigins: []string{"*"},
		PaymentGatewayMock: true,
	}
	h, err := BuildHandlers(context.Background(), cfg)
	require.NoError(t, err)
	return NewRouter(cfg, h)
}

func call(t *testing.T, r *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)
	code, body := call(t, r, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body["message"])
}

func TestOrderEstimateLifecycle(t *testing.T) {
	r := newTestRouter(t)

	code, order := call(t, r, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Acme Textiles",
		"agent_name":    "Ravi",
		"items": []map[string]any{
			{"product_code": "SK-1", "product_name": "Silk", "quantity": 2, "rate": 100},
			{"product_code": "CT-9", "product_name": "Cotton", "quantity": 3, "rate": 33.5},
		},
		"advance": 50,
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "ORD-001", order["order_id"])
	assert.Equal(t, "No Estimate", order["status"])
	assert.Equal(t, 300.5, order["total"])
	assert.Equal(t, 250.5, order["balance"])
	assert.Nil(t, order["estimate_id"])

	code, estimate := call(t, r, http.MethodPost, "/api/estimates", map[string]any{"order_id": "ORD-001"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "EST-001", estimate["estimate_id"])
	assert.Equal(t, "Pending", estimate["status"])
	assert.Equal(t, "Acme Textiles", estimate["customer_name"])
	assert.Equal(t, 300.5, estimate["total"])

	_, order = call(t, r, http.MethodGet, "/api/orders/ORD-001", nil)
	assert.Equal(t, "Pending", order["status"])
	assert.Equal(t, "EST-001", order["estimate_id"])

	code, estimate = call(t, r, http.MethodPut, "/api/estimates/EST-001", map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Completed", estimate["status"])

	_, order = call(t, r, http.MethodGet, "/api/orders/ORD-001", nil)
	assert.Equal(t, "Completed", order["status"])
	assert.Equal(t, "EST-001", order["estimate_id"])

	code, _ = call(t, r, http.MethodDelete, "/api/estimates/EST-001", nil)
	require.Equal(t, http.StatusOK, code)

	_, order = call(t, r, http.MethodGet, "/api/orders/ORD-001", nil)
	assert.Equal(t, "No Estimate", order["status"])
	assert.Nil(t, order["estimate_id"])

	code, body := call(t, r, http.MethodGet, "/api/estimates/EST-001", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Estimate not found", body["error"])
}

func TestDuplicateKeysAndMissingRecords(t *testing.T) {
	r := newTestRouter(t)

	code, _ := call(t, r, http.MethodPost, "/api/orders", map[string]any{
		"order_id": "ORD-100", "customer_name": "Acme",
		"items": []map[string]any{{"product_code": "A", "quantity": 1, "rate": 10}},
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := call(t, r, http.MethodPost, "/api/orders", map[string]any{
		"order_id": "ORD-100", "customer_name": "Other",
		"items": []map[string]any{{"product_code": "B", "quantity": 1, "rate": 5}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "An order with this ID already exists", body["error"])

	code, body = call(t, r, http.MethodPost, "/api/estimates", map[string]any{"order_id": "ORD-404"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Order not found", body["error"])

	code, _ = call(t, r, http.MethodPost, "/api/estimates", map[string]any{"order_id": "ORD-100", "estimate_id": "EST-100"})
	require.Equal(t, http.StatusCreated, code)
	code, body = call(t, r, http.MethodPost, "/api/estimates", map[string]any{"order_id": "ORD-100", "estimate_id": "EST-100"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "An estimate with this ID already exists", body["error"])

	code, body = call(t, r, http.MethodGet, "/api/vendors/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Vendor not found", body["error"])
}

func TestAdvancePaymentReducesBalance(t *testing.T) {
	r := newTestRouter(t)

	code, _ := call(t, r, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Acme",
		"items":         []map[string]any{{"product_code": "A", "quantity": 2, "rate": 100}},
	})
	require.Equal(t, http.StatusCreated, code)

	code, payment := call(t, r, http.MethodPost, "/api/orders/ORD-001/payments", map[string]any{"amount": 80, "method": "pix"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "approved", payment["status"])

	_, order := call(t, r, http.MethodGet, "/api/orders/ORD-001", nil)
	assert.Equal(t, 80.0, order["advance"])
	assert.Equal(t, 120.0, order["balance"])

	code, body := call(t, r, http.MethodPost, "/api/orders/ORD-001/payments", map[string]any{"amount": 500})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", body["code"])
}

func TestCatalogRoutesAreMounted(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/api/customers", "/api/agents", "/api/employees", "/api/products", "/api/suppliers", "/api/vendors", "/api/inventory"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "[]", w.Body.String(), path)
	}
}
