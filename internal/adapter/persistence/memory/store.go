// Package memory provides in-process implementations of the repository
// interfaces. It backs STORAGE_DRIVER=memory and the end-to-end tests.
//
// All repositories created from one Store share a single lock, so the
// multi-document writes (estimate + order, payment + order) are atomic exactly
// like the DynamoDB transactions they stand in for.
package memory

import (
	"context"
	"sync"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

// Store holds every collection in memory.
type Store struct {
	mu        sync.Mutex
	counters  map[string]int64
	claims    map[string]string
	orders    map[string]entities.Order
	estimates map[string]entities.Estimate
	payments  map[string]entities.Payment
}

func NewStore() *Store {
	return &Store{
		counters:  map[string]int64{},
		claims:    map[string]string{},
		orders:    map[string]entities.Order{},
		estimates: map[string]entities.Estimate{},
		payments:  map[string]entities.Payment{},
	}
}

var _ interfaces.ISequenceGenerator = (*Store)(nil)

// Next increments and returns the counter for name.
func (s *Store) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

func claimKey(collection, key string) string {
	return "key#" + collection + "#" + key
}

// claim must be called with the lock held.
func (s *Store) claim(collection, key, owner string) error {
	k := claimKey(collection, key)
	if current, ok := s.claims[k]; ok && current != owner {
		return interfaces.ErrDuplicateKey
	}
	s.claims[k] = owner
	return nil
}

func (s *Store) release(collection, key string) {
	delete(s.claims, claimKey(collection, key))
}

func (s *Store) claimed(collection, key string) bool {
	_, ok := s.claims[claimKey(collection, key)]
	return ok
}

func cloneItems(items []entities.LineItem) []entities.LineItem {
	if items == nil {
		return nil
	}
	return append([]entities.LineItem(nil), items...)
}

func cloneOrder(o entities.Order) entities.Order {
	o.Items = cloneItems(o.Items)
	if o.EstimateID != nil {
		id := *o.EstimateID
		o.EstimateID = &id
	}
	return o
}

func cloneEstimate(e entities.Estimate) entities.Estimate {
	e.Items = cloneItems(e.Items)
	return e
}
