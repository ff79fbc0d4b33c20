package interfaces

import (
	"context"

	"bizdesk/internal/domain/entities"
)

// OrderFilter narrows an order listing. Empty fields do not filter.
type OrderFilter struct {
	Status   string
	Customer string
}

// IOrderRepository abstracts persistence for Order.
//
// Lookups return a zero Order (empty ID) when nothing matches. Create claims the
// order's business key and fails with ErrDuplicateKey when it is taken.
type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (entities.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]entities.Order, error)
	Update(ctx context.Context, o entities.Order) (entities.Order, error)
	Delete(ctx context.Context, o entities.Order) error
}
