package interfaces

import (
	"context"

	"bizdesk/internal/domain/entities"
)

// IPaymentRepository abstracts persistence for Payment.
//
// When order is not nil, Create also moves the payment amount from the order's
// balance to its advance in the same atomic write, failing with ErrConditionFailed
// if the balance no longer covers the amount.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment, order *entities.Order) (entities.Payment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error)
}
