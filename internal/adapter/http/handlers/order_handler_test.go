package handlers

import (
	"net/http"
	"testing"

	"bizdesk/internal/adapter/http/handlers/mocks"
	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase"
	"bizdesk/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newOrderRouter(t *testing.T) (*gin.Engine, *mocks.MockIOrderUseCase) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIOrderUseCase(ctrl)
	h := NewOrderHandler(uc)

	r := gin.New()
	r.POST("/api/orders", h.CreateOrder)
	r.GET("/api/orders", h.ListOrders)
	r.GET("/api/orders/:id", h.GetOrder)
	r.PUT("/api/orders/:id", h.UpdateOrder)
	r.DELETE("/api/orders/:id", h.DeleteOrder)
	return r, uc
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("negative advance rejected by binding", func(t *testing.T) {
		r, _ := newOrderRouter(t)
		w := doJSON(r, http.MethodPost, "/api/orders", `{"customer_name":"Acme","advance":-5}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing customer", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(entities.Order{}, &entities.ValidationError{Field: "customer_name", Reason: "is required"})

		w := doJSON(r, http.MethodPost, "/api/orders", `{"items":[{"product_code":"A1","quantity":1,"rate":10}]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "customer_name is required" || body["code"] != "VALIDATION_ERROR" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("duplicate order id", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(entities.Order{}, usecase.ErrOrderAlreadyExists)

		w := doJSON(r, http.MethodPost, "/api/orders", `{"order_id":"ORD-001","customer_name":"Acme","items":[{"quantity":1,"rate":1}]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "An order with this ID already exists" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, o entities.Order) (entities.Order, error) {
			if o.CustomerName != "Acme" || len(o.Items) != 1 || o.Items[0].Quantity != 2 {
				t.Fatalf("unexpected order passed to use case: %+v", o)
			}
			o.ID, o.OrderID = "uuid", "ORD-001"
			o.Reprice()
			return o, nil
		})

		w := doJSON(r, http.MethodPost, "/api/orders", `{"customer_name":"Acme","items":[{"product_code":"A1","quantity":2,"rate":100}],"advance":50}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["order_id"] != "ORD-001" || body["balance"] != float64(150) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		if _, ok := body["estimate_id"]; !ok {
			t.Fatalf("estimate_id must always be present")
		}
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	r, uc := newOrderRouter(t)
	uc.EXPECT().ListOrders(gomock.Any(), interfaces.OrderFilter{Status: "Pending", Customer: "acme"}).Return(nil, nil)

	w := doJSON(r, http.MethodGet, "/api/orders?status=Pending&customer=acme", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Fatalf("expected an empty list, got %s", w.Body.String())
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	r, uc := newOrderRouter(t)
	uc.EXPECT().GetOrder(gomock.Any(), "ORD-404").Return(entities.Order{}, usecase.ErrOrderNotFound)

	w := doJSON(r, http.MethodGet, "/api/orders/ORD-404", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Order not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestOrderHandler_UpdateOrder(t *testing.T) {
	r, uc := newOrderRouter(t)
	uc.EXPECT().UpdateOrder(gomock.Any(), "ORD-001", gomock.Any()).DoAndReturn(
		func(_ any, _ string, patch usecase.OrderPatch) (entities.Order, error) {
			if patch.Advance == nil || *patch.Advance != 120 || patch.CustomerName != nil {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			return entities.Order{OrderID: "ORD-001", Advance: 120}, nil
		},
	)

	w := doJSON(r, http.MethodPut, "/api/orders/ORD-001", `{"advance":120}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestOrderHandler_UpdateOrderConflict(t *testing.T) {
	r, uc := newOrderRouter(t)
	uc.EXPECT().UpdateOrder(gomock.Any(), "ORD-001", gomock.Any()).Return(entities.Order{}, usecase.ErrOrderConflict)

	w := doJSON(r, http.MethodPut, "/api/orders/ORD-001", `{"agent_name":"Ravi"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != "ORDER_CONFLICT" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestOrderHandler_DeleteOrder(t *testing.T) {
	r, uc := newOrderRouter(t)
	uc.EXPECT().DeleteOrder(gomock.Any(), "ORD-001").Return(nil)

	w := doJSON(r, http.MethodDelete, "/api/orders/ORD-001", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
