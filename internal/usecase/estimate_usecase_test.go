package usecase

import (
	"context"
	"errors"
	"testing"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
	mock_interfaces "bizdesk/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type estimateMocks struct {
	repo   *mock_interfaces.MockIEstimateRepository
	orders *mock_interfaces.MockIOrderRepository
	seq    *mock_interfaces.MockISequenceGenerator
	uc     *EstimateUseCase
}

func newEstimateMocks(t *testing.T) estimateMocks {
	ctrl := gomock.NewController(t)
	m := estimateMocks{
		repo:   mock_interfaces.NewMockIEstimateRepository(ctrl),
		orders: mock_interfaces.NewMockIOrderRepository(ctrl),
		seq:    mock_interfaces.NewMockISequenceGenerator(ctrl),
	}
	m.uc = NewEstimateUseCase(m.repo, m.orders, m.seq)
	return m
}

func sampleOrder() entities.Order {
	return entities.Order{
		ID:           "order-uuid",
		OrderID:      "ORD-001",
		CustomerName: "Acme",
		AgentName:    "Raj",
		Items:        []entities.LineItem{{ProductCode: "A1", Quantity: 2, Rate: 100, Total: 200}},
		Total:        200,
		Advance:      50,
		Balance:      150,
		Status:       entities.OrderStatusNoEstimate,
	}
}

func TestEstimateUseCase_CreateEstimate(t *testing.T) {
	t.Run("missing order id", func(t *testing.T) {
		m := newEstimateMocks(t)
		_, err := m.uc.CreateEstimate(context.Background(), CreateEstimateCommand{OrderID: " "})
		if !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("order not found", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-404").Return(entities.Order{}, nil)

		_, err := m.uc.CreateEstimate(context.Background(), CreateEstimateCommand{OrderID: "ORD-404"})
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("order without items writes nothing", func(t *testing.T) {
		m := newEstimateMocks(t)
		empty := sampleOrder()
		empty.Items = nil
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(empty, nil)
		// no sequence call, no CreateLinked call

		_, err := m.uc.CreateEstimate(context.Background(), CreateEstimateCommand{OrderID: "ORD-001"})
		if !errors.Is(err, ErrEstimateNoItems) {
			t.Fatalf("expected ErrEstimateNoItems, got %v", err)
		}
	})

	t.Run("snapshots order and links it", func(t *testing.T) {
		m := newEstimateMocks(t)
		order := sampleOrder()
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(order, nil)
		m.seq.EXPECT().Next(gomock.Any(), "estimates").Return(int64(1), nil)
		m.repo.EXPECT().CreateLinked(gomock.Any(), gomock.Any(), order).DoAndReturn(
			func(_ context.Context, e entities.Estimate, _ entities.Order) (entities.Estimate, error) {
				if e.EstimateID != "EST-001" || e.ID == "" || e.OrderID != "ORD-001" {
					t.Fatalf("unexpected ids: %+v", e)
				}
				if e.Status != entities.EstimateStatusPending {
					t.Fatalf("expected Pending, got %s", e.Status)
				}
				if e.CustomerName != "Acme" || e.AgentName != "Raj" || len(e.Items) != 1 || e.Total != 200 || e.Balance != 150 {
					t.Fatalf("unexpected snapshot: %+v", e)
				}
				return e, nil
			},
		)

		res, err := m.uc.CreateEstimate(context.Background(), CreateEstimateCommand{OrderID: "ORD-001"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.EstimateID != "EST-001" {
			t.Fatalf("unexpected estimate id %s", res.EstimateID)
		}
	})

	t.Run("explicit items and id", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(sampleOrder(), nil)
		m.repo.EXPECT().CreateLinked(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate, _ entities.Order) (entities.Estimate, error) {
				return e, nil
			},
		)

		res, err := m.uc.CreateEstimate(context.Background(), CreateEstimateCommand{
			OrderID:    "ORD-001",
			EstimateID: "EST-900",
			Items:      []entities.LineItem{{ProductCode: "B2", Quantity: 1, Rate: 30}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.EstimateID != "EST-900" || res.Total != 30 {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("duplicate estimate id", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(sampleOrder(), nil)
		m.repo.EXPECT().CreateLinked(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Estimate{}, interfaces.ErrDuplicateKey)

		_, err := m.uc.CreateEstimate(context.Background(), CreateEstimateCommand{OrderID: "ORD-001", EstimateID: "EST-001"})
		if !errors.Is(err, ErrEstimateAlreadyExists) {
			t.Fatalf("expected ErrEstimateAlreadyExists, got %v", err)
		}
	})
}

func TestEstimateUseCase_UpdateEstimate(t *testing.T) {
	estimate := entities.Estimate{
		ID:         "est-uuid",
		EstimateID: "EST-001",
		OrderID:    "ORD-001",
		Items:      []entities.LineItem{{ProductCode: "A1", Quantity: 2, Rate: 100}},
		Status:     entities.EstimateStatusPending,
	}
	echo := func(_ context.Context, e entities.Estimate, _ *entities.Order) (entities.Estimate, error) {
		return e, nil
	}

	t.Run("resolves by business key", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "EST-001").Return(entities.Estimate{}, nil)
		m.repo.EXPECT().GetByEstimateID(gomock.Any(), "EST-001").Return(estimate, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), (*entities.Order)(nil)).DoAndReturn(echo)

		notes := "call back"
		res, err := m.uc.UpdateEstimate(context.Background(), "EST-001", EstimatePatch{Notes: &notes})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Notes != "call back" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("completed marks order", func(t *testing.T) {
		m := newEstimateMocks(t)
		order := sampleOrder()
		m.repo.EXPECT().GetByID(gomock.Any(), "est-uuid").Return(estimate, nil)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(order, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), &order).DoAndReturn(echo)

		status := entities.EstimateStatusCompleted
		res, err := m.uc.UpdateEstimate(context.Background(), "est-uuid", EstimatePatch{Status: &status})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.EstimateStatusCompleted {
			t.Fatalf("unexpected status %s", res.Status)
		}
	})

	t.Run("pending does not touch order", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "est-uuid").Return(estimate, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), (*entities.Order)(nil)).DoAndReturn(echo)

		status := entities.EstimateStatusPending
		if _, err := m.uc.UpdateEstimate(context.Background(), "est-uuid", EstimatePatch{Status: &status}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("completed with missing order updates estimate alone", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "est-uuid").Return(estimate, nil)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(entities.Order{}, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), (*entities.Order)(nil)).DoAndReturn(echo)

		status := entities.EstimateStatusCompleted
		if _, err := m.uc.UpdateEstimate(context.Background(), "est-uuid", EstimatePatch{Status: &status}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "est-uuid").Return(estimate, nil)

		status := entities.EstimateStatus("Approved")
		_, err := m.uc.UpdateEstimate(context.Background(), "est-uuid", EstimatePatch{Status: &status})
		if !entities.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "nope").Return(entities.Estimate{}, nil)
		m.repo.EXPECT().GetByEstimateID(gomock.Any(), "nope").Return(entities.Estimate{}, nil)

		_, err := m.uc.UpdateEstimate(context.Background(), "nope", EstimatePatch{})
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})
}

func TestEstimateUseCase_DeleteEstimate(t *testing.T) {
	estimate := entities.Estimate{ID: "est-uuid", EstimateID: "EST-001", OrderID: "ORD-001"}

	t.Run("unlinks order", func(t *testing.T) {
		m := newEstimateMocks(t)
		order := sampleOrder()
		order.Status = entities.OrderStatusProcessing
		m.repo.EXPECT().GetByID(gomock.Any(), "EST-001").Return(entities.Estimate{}, nil)
		m.repo.EXPECT().GetByEstimateID(gomock.Any(), "EST-001").Return(estimate, nil)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(order, nil)
		m.repo.EXPECT().DeleteLinked(gomock.Any(), estimate, &order).Return(nil)

		if err := m.uc.DeleteEstimate(context.Background(), "EST-001"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "est-uuid").Return(estimate, nil)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(entities.Order{}, nil)
		m.repo.EXPECT().DeleteLinked(gomock.Any(), estimate, (*entities.Order)(nil)).Return(nil)

		if err := m.uc.DeleteEstimate(context.Background(), "est-uuid"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		m := newEstimateMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "est-uuid").Return(estimate, nil)
		m.orders.EXPECT().GetByOrderID(gomock.Any(), "ORD-001").Return(entities.Order{}, errors.New("db"))

		err := m.uc.DeleteEstimate(context.Background(), "est-uuid")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}
