package memory

import (
	"context"
	"sort"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

const estimatesCollection = "estimates"

// EstimateRepository stores estimates in a Store.
type EstimateRepository struct {
	s *Store
}

var _ interfaces.IEstimateRepository = (*EstimateRepository)(nil)

func NewEstimateRepository(s *Store) *EstimateRepository {
	return &EstimateRepository{s: s}
}

func (r *EstimateRepository) CreateLinked(_ context.Context, e entities.Estimate, order entities.Order) (entities.Estimate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[order.ID]; !ok {
		return entities.Estimate{}, interfaces.ErrConditionFailed
	}
	if _, exists := r.s.estimates[e.ID]; exists || r.s.claimed(estimatesCollection, e.EstimateID) {
		return entities.Estimate{}, interfaces.ErrDuplicateKey
	}

	if err := r.s.claim(estimatesCollection, e.EstimateID, e.ID); err != nil {
		return entities.Estimate{}, err
	}
	r.s.estimates[e.ID] = cloneEstimate(e)
	key := e.EstimateID
	r.s.setOrderStatus(order.ID, entities.OrderStatusPending, &key, true)
	return cloneEstimate(e), nil
}

func (r *EstimateRepository) GetByID(_ context.Context, id string) (entities.Estimate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneEstimate(r.s.estimates[id]), nil
}

func (r *EstimateRepository) GetByEstimateID(_ context.Context, estimateID string) (entities.Estimate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.estimates {
		if e.EstimateID == estimateID {
			return cloneEstimate(e), nil
		}
	}
	return entities.Estimate{}, nil
}

func (r *EstimateRepository) List(_ context.Context, filter interfaces.EstimateFilter) ([]entities.Estimate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]entities.Estimate, 0, len(r.s.estimates))
	for _, e := range r.s.estimates {
		if filter.OrderID != "" && e.OrderID != filter.OrderID {
			continue
		}
		if filter.Status != "" && string(e.Status) != filter.Status {
			continue
		}
		out = append(out, cloneEstimate(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EstimateID < out[j].EstimateID })
	return out, nil
}

func (r *EstimateRepository) Update(_ context.Context, e entities.Estimate, completedOrder *entities.Order) (entities.Estimate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.estimates[e.ID]
	if !ok {
		return entities.Estimate{}, nil
	}
	if completedOrder != nil {
		if _, ok := r.s.orders[completedOrder.ID]; !ok {
			return entities.Estimate{}, interfaces.ErrConditionFailed
		}
		r.s.setOrderStatus(completedOrder.ID, entities.OrderStatusCompleted, nil, false)
	}

	e.EstimateID = current.EstimateID
	e.OrderID = current.OrderID
	e.CreatedAt = current.CreatedAt
	r.s.estimates[e.ID] = cloneEstimate(e)
	return cloneEstimate(e), nil
}

func (r *EstimateRepository) DeleteLinked(_ context.Context, e entities.Estimate, order *entities.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.estimates[e.ID]; !ok {
		return interfaces.ErrConditionFailed
	}
	if order != nil {
		if _, ok := r.s.orders[order.ID]; !ok {
			return interfaces.ErrConditionFailed
		}
		r.s.setOrderStatus(order.ID, entities.OrderStatusNoEstimate, nil, true)
	}
	delete(r.s.estimates, e.ID)
	r.s.release(estimatesCollection, e.EstimateID)
	return nil
}
