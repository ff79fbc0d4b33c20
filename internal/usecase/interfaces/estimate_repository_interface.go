package interfaces

import (
	"context"

	"bizdesk/internal/domain/entities"
)

// EstimateFilter narrows an estimate listing. Empty fields do not filter.
type EstimateFilter struct {
	OrderID string
	Status  string
}

// IEstimateRepository abstracts persistence for Estimate.
//
// The write methods that take an order apply the estimate change and the order
// change as one atomic unit:
//   - CreateLinked stores the estimate and links the order (estimate_id, Pending)
//   - Update also marks completedOrder as Completed when it is not nil
//   - DeleteLinked also unlinks order (estimate_id nil, No Estimate) when it is not nil
type IEstimateRepository interface {
	CreateLinked(ctx context.Context, e entities.Estimate, order entities.Order) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	GetByEstimateID(ctx context.Context, estimateID string) (entities.Estimate, error)
	List(ctx context.Context, filter EstimateFilter) ([]entities.Estimate, error)
	Update(ctx context.Context, e entities.Estimate, completedOrder *entities.Order) (entities.Estimate, error)
	DeleteLinked(ctx context.Context, e entities.Estimate, order *entities.Order) error
}
