package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

// CatalogRepository stores one catalog collection in a Store.
type CatalogRepository[T entities.Record[T]] struct {
	s          *Store
	collection string
	records    map[string]T
}

var _ interfaces.ICatalogRepository[entities.InventoryItem] = (*CatalogRepository[entities.InventoryItem])(nil)

func NewCatalogRepository[T entities.Record[T]](s *Store) *CatalogRepository[T] {
	var zero T
	return &CatalogRepository[T]{s: s, collection: zero.Kind().Collection, records: map[string]T{}}
}

func (r *CatalogRepository[T]) Create(_ context.Context, rec T) (T, error) {
	var zero T
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.records[rec.RecordID()]; exists {
		return zero, interfaces.ErrDuplicateKey
	}
	if err := r.s.claim(r.collection, rec.UniqueKey(), rec.RecordID()); err != nil {
		return zero, err
	}
	r.records[rec.RecordID()] = rec
	return rec, nil
}

func (r *CatalogRepository[T]) GetByID(_ context.Context, id string) (T, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.records[id], nil
}

func (r *CatalogRepository[T]) List(_ context.Context) ([]T, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]T, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UniqueKey() < out[j].UniqueKey() })
	return out, nil
}

func (r *CatalogRepository[T]) Update(_ context.Context, previous, next T) (T, error) {
	var zero T
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.records[next.RecordID()]; !ok {
		return zero, nil
	}
	if previous.UniqueKey() != next.UniqueKey() {
		if err := r.s.claim(r.collection, next.UniqueKey(), next.RecordID()); err != nil {
			return zero, err
		}
		r.s.release(r.collection, previous.UniqueKey())
	}
	r.records[next.RecordID()] = next
	return next, nil
}

func (r *CatalogRepository[T]) Delete(_ context.Context, rec T) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.records[rec.RecordID()]; !ok {
		return interfaces.ErrConditionFailed
	}
	delete(r.records, rec.RecordID())
	r.s.release(r.collection, rec.UniqueKey())
	return nil
}

// Increment adds delta to the attribute whose JSON name is attribute.
func (r *CatalogRepository[T]) Increment(_ context.Context, id, attribute string, delta int) (T, error) {
	var zero T
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return zero, nil
	}

	// round-trip through the JSON form so any numeric attribute can be addressed
	raw, err := json.Marshal(rec)
	if err != nil {
		return zero, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, err
	}
	current, ok := doc[attribute].(float64)
	if !ok {
		return zero, fmt.Errorf("attribute %q is not numeric", attribute)
	}
	if current+float64(delta) < 0 {
		return zero, interfaces.ErrConditionFailed
	}
	doc[attribute] = current + float64(delta)
	doc["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	raw, err = json.Marshal(doc)
	if err != nil {
		return zero, err
	}
	var updated T
	if err := json.Unmarshal(raw, &updated); err != nil {
		return zero, err
	}
	r.records[id] = updated
	return updated, nil
}
