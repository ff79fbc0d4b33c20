package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

const ordersCollection = "orders"

// OrderRepository stores orders in a Store.
type OrderRepository struct {
	s *Store
}

var _ interfaces.IOrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{s: s}
}

func (r *OrderRepository) Create(_ context.Context, o entities.Order) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.orders[o.ID]; exists || r.s.claimed(ordersCollection, o.OrderID) {
		return entities.Order{}, interfaces.ErrDuplicateKey
	}
	if err := r.s.claim(ordersCollection, o.OrderID, o.ID); err != nil {
		return entities.Order{}, err
	}
	r.s.orders[o.ID] = cloneOrder(o)
	return cloneOrder(o), nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneOrder(r.s.orders[id]), nil
}

func (r *OrderRepository) GetByOrderID(_ context.Context, orderID string) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneOrder(r.s.orderByKey(orderID)), nil
}

func (s *Store) orderByKey(orderID string) entities.Order {
	for _, o := range s.orders {
		if o.OrderID == orderID {
			return o
		}
	}
	return entities.Order{}
}

func (r *OrderRepository) List(_ context.Context, filter interfaces.OrderFilter) ([]entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customer := strings.ToLower(filter.Customer)
	out := make([]entities.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		if customer != "" && !strings.Contains(strings.ToLower(o.CustomerName), customer) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (r *OrderRepository) Update(_ context.Context, o entities.Order) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.orders[o.ID]
	if !ok {
		return entities.Order{}, nil
	}
	if current.Version != o.Version {
		return entities.Order{}, interfaces.ErrConditionFailed
	}
	// the business key and the estimate link are not changed by a plain update
	o.OrderID = current.OrderID
	o.EstimateID = current.EstimateID
	o.CreatedAt = current.CreatedAt
	o.Version = current.Version + 1
	r.s.orders[o.ID] = cloneOrder(o)
	return cloneOrder(o), nil
}

func (r *OrderRepository) Delete(_ context.Context, o entities.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[o.ID]; !ok {
		return interfaces.ErrConditionFailed
	}
	delete(r.s.orders, o.ID)
	r.s.release(ordersCollection, o.OrderID)
	return nil
}

// setOrderStatus must be called with the lock held.
func (s *Store) setOrderStatus(id string, status entities.OrderStatus, estimateID *string, touchLink bool) bool {
	o, ok := s.orders[id]
	if !ok {
		return false
	}
	o.Status = status
	if touchLink {
		o.EstimateID = estimateID
	}
	o.UpdatedAt = time.Now().UTC()
	o.Version++
	s.orders[id] = o
	return true
}
