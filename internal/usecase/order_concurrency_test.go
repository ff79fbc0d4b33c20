package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"bizdesk/internal/adapter/persistence/memory"
	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
	mock_interfaces "bizdesk/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// interleavingOrders runs afterRead once, right after the first order read, so a
// write can land between UpdateOrder's read and its write.
type interleavingOrders struct {
	interfaces.IOrderRepository
	afterRead func()
}

func (r *interleavingOrders) GetByID(ctx context.Context, id string) (entities.Order, error) {
	o, err := r.IOrderRepository.GetByID(ctx, id)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return o, err
}

func createStoredOrder(t *testing.T, store *memory.Store) entities.Order {
	t.Helper()
	uc := NewOrderUseCase(memory.NewOrderRepository(store), store)
	o, err := uc.CreateOrder(context.Background(), entities.Order{CustomerName: "Acme", Items: sampleItems()})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func TestUpdateOrder_KeepsPaymentRecordedMidUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := memory.NewStore()
	order := createStoredOrder(t, store)

	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("42", "approved", json.RawMessage(`{"id":42}`), nil)
	payments := NewPaymentUseCase(memory.NewPaymentRepository(store), memory.NewOrderRepository(store), gateway)

	orders := &interleavingOrders{IOrderRepository: memory.NewOrderRepository(store)}
	orders.afterRead = func() {
		if _, err := payments.RecordAdvance(ctx, order.OrderID, 80, "pix", nil); err != nil {
			t.Fatalf("record advance: %v", err)
		}
	}
	uc := NewOrderUseCase(orders, store)

	agent := "Ravi"
	res, err := uc.UpdateOrder(ctx, order.ID, OrderPatch{AgentName: &agent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AgentName != "Ravi" || res.Advance != 80 || res.Balance != 120 {
		t.Fatalf("unexpected result: %+v", res)
	}

	stored, err := uc.GetOrder(ctx, order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.AgentName != "Ravi" || stored.Advance != 80 || stored.Balance != 120 {
		t.Fatalf("payment was overwritten: %+v", stored)
	}
}

func TestUpdateOrder_KeepsEstimateLinkedMidUpdate(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	order := createStoredOrder(t, store)

	estimates := NewEstimateUseCase(memory.NewEstimateRepository(store), memory.NewOrderRepository(store), store)

	orders := &interleavingOrders{IOrderRepository: memory.NewOrderRepository(store)}
	orders.afterRead = func() {
		if _, err := estimates.CreateEstimate(ctx, CreateEstimateCommand{OrderID: order.OrderID}); err != nil {
			t.Fatalf("create estimate: %v", err)
		}
	}
	uc := NewOrderUseCase(orders, store)

	agent := "Ravi"
	if _, err := uc.UpdateOrder(ctx, order.ID, OrderPatch{AgentName: &agent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := uc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.AgentName != "Ravi" {
		t.Fatalf("patch was not applied: %+v", stored)
	}
	if stored.Status != entities.OrderStatusPending || !stored.HasEstimate() || *stored.EstimateID != "EST-001" {
		t.Fatalf("estimate link was overwritten: %+v", stored)
	}
}
