package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
	mock_interfaces "bizdesk/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestPaymentUseCase_RecordAdvance_Validations(t *testing.T) {
	t.Run("invalid amount", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil)
		_, err := uc.RecordAdvance(context.Background(), "ORD-001", 0, "pix", nil)
		if !errors.Is(err, ErrInvalidPaymentAmount) {
			t.Fatalf("expected ErrInvalidPaymentAmount, got %v", err)
		}
	})

	t.Run("invalid json payload", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil)
		_, err := uc.RecordAdvance(context.Background(), "ORD-001", 10, "pix", json.RawMessage(`{`))
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil)
		_, err := uc.RecordAdvance(context.Background(), "ORD-001", 10, "pix", nil)
		if !errors.Is(err, ErrPaymentGatewayUnavailable) {
			t.Fatalf("expected ErrPaymentGatewayUnavailable, got %v", err)
		}
	})

	t.Run("exceeds balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewPaymentUseCase(mock_interfaces.NewMockIPaymentRepository(ctrl), orders, mock_interfaces.NewMockIPaymentGateway(ctrl))

		orders.EXPECT().GetByID(gomock.Any(), "ORD-001").Return(entities.Order{}, nil)
		orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(sampleOrder(), nil)

		_, err := uc.RecordAdvance(context.Background(), "ORD-001", 151, "pix", nil)
		if !errors.Is(err, ErrPaymentExceedsBalance) {
			t.Fatalf("expected ErrPaymentExceedsBalance, got %v", err)
		}
	})
}

func TestPaymentUseCase_RecordAdvance(t *testing.T) {
	setup := func(t *testing.T) (*mock_interfaces.MockIPaymentRepository, *mock_interfaces.MockIPaymentGateway, *PaymentUseCase, entities.Order) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		order := sampleOrder()
		orders.EXPECT().GetByID(gomock.Any(), "order-uuid").Return(order, nil)
		return repo, gateway, NewPaymentUseCase(repo, orders, gateway), order
	}

	t.Run("approved payment is applied to order", func(t *testing.T) {
		repo, gateway, uc, order := setup(t)

		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
				var m map[string]any
				if err := json.Unmarshal(payload, &m); err != nil {
					t.Fatalf("payload is not json: %v", err)
				}
				if m["external_reference"] != "ORD-001" || m["transaction_amount"] != 40.0 || m["payment_method_id"] != "pix" {
					t.Fatalf("payload not enriched: %s", payload)
				}
				return "99", "approved", json.RawMessage(`{"id":99,"status":"approved"}`), nil
			},
		)
		repo.EXPECT().Create(gomock.Any(), gomock.Any(), &order).DoAndReturn(
			func(_ context.Context, p entities.Payment, _ *entities.Order) (entities.Payment, error) {
				return p, nil
			},
		)

		p, err := uc.RecordAdvance(context.Background(), "order-uuid", 40, "pix", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "ORD-001-99" || p.Status != entities.PaymentStatusApproved || p.Amount != 40 {
			t.Fatalf("unexpected payment: %+v", p)
		}
		if p.MPPayload["status"] != "approved" {
			t.Fatalf("expected parsed payload, got %+v", p.MPPayload)
		}
	})

	t.Run("rejected payment is stored only", func(t *testing.T) {
		repo, gateway, uc, _ := setup(t)

		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("7", "rejected", json.RawMessage(`{}`), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any(), (*entities.Order)(nil)).DoAndReturn(
			func(_ context.Context, p entities.Payment, _ *entities.Order) (entities.Payment, error) {
				return p, nil
			},
		)

		p, err := uc.RecordAdvance(context.Background(), "order-uuid", 40, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusDenied {
			t.Fatalf("expected denied, got %s", p.Status)
		}
	})

	t.Run("gateway bad request", func(t *testing.T) {
		_, gateway, uc, _ := setup(t)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New(`{"status":400,"error":"bad_request"}`))

		_, err := uc.RecordAdvance(context.Background(), "order-uuid", 40, "pix", nil)
		if !errors.Is(err, ErrPaymentGatewayBadRequest) {
			t.Fatalf("expected ErrPaymentGatewayBadRequest, got %v", err)
		}
	})

	t.Run("balance changed concurrently", func(t *testing.T) {
		repo, gateway, uc, _ := setup(t)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("8", "approved", json.RawMessage(`{}`), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Payment{}, interfaces.ErrConditionFailed)

		_, err := uc.RecordAdvance(context.Background(), "order-uuid", 40, "pix", nil)
		if !errors.Is(err, ErrPaymentExceedsBalance) {
			t.Fatalf("expected ErrPaymentExceedsBalance, got %v", err)
		}
	})
}

func TestPaymentUseCase_ListByOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
	orders := mock_interfaces.NewMockIOrderRepository(ctrl)
	uc := NewPaymentUseCase(repo, orders, nil)

	orders.EXPECT().GetByID(gomock.Any(), "order-uuid").Return(sampleOrder(), nil)
	repo.EXPECT().ListByOrderID(gomock.Any(), "ORD-001").Return([]entities.Payment{{ID: "p1"}}, nil)

	res, err := uc.ListByOrder(context.Background(), "order-uuid")
	if err != nil || len(res) != 1 {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
}

func TestPaymentStatusFromProvider(t *testing.T) {
	cases := map[string]entities.PaymentStatus{
		"approved":     entities.PaymentStatusApproved,
		" AUTHORIZED ": entities.PaymentStatusApproved,
		"rejected":     entities.PaymentStatusDenied,
		"in_process":   entities.PaymentStatusPending,
		"":             entities.PaymentStatusPending,
	}
	for in, want := range cases {
		if got := paymentStatusFromProvider(in); got != want {
			t.Fatalf("%q: expected %s got %s", in, want, got)
		}
	}
}
