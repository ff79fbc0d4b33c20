package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

// PaymentRepository stores payments in a Store.
type PaymentRepository struct {
	s *Store
}

var _ interfaces.IPaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(s *Store) *PaymentRepository {
	return &PaymentRepository{s: s}
}

func (r *PaymentRepository) Create(_ context.Context, p entities.Payment, order *entities.Order) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.payments[p.ID]; exists {
		return entities.Payment{}, interfaces.ErrDuplicateKey
	}
	if order != nil {
		o, ok := r.s.orders[order.ID]
		if !ok || o.Balance < p.Amount {
			return entities.Payment{}, interfaces.ErrConditionFailed
		}
		amount := decimal.NewFromFloat(p.Amount)
		o.Advance = decimal.NewFromFloat(o.Advance).Add(amount).InexactFloat64()
		o.Balance = decimal.NewFromFloat(o.Balance).Sub(amount).InexactFloat64()
		o.UpdatedAt = time.Now().UTC()
		o.Version++
		r.s.orders[o.ID] = o
	}
	r.s.payments[p.ID] = p
	return p, nil
}

func (r *PaymentRepository) ListByOrderID(_ context.Context, orderID string) ([]entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []entities.Payment
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
