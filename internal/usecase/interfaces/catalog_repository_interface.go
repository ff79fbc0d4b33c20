package interfaces

import (
	"context"

	"bizdesk/internal/domain/entities"
)

// ICatalogRepository persists plain CRUD records. Records are unique by their
// natural key (Record.UniqueKey); Create and key-changing Updates fail with
// ErrDuplicateKey when the key is taken.
type ICatalogRepository[T entities.Record[T]] interface {
	Create(ctx context.Context, r T) (T, error)
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, previous, next T) (T, error)
	Delete(ctx context.Context, r T) error
	// Increment atomically adds delta to a numeric attribute. A negative delta
	// that would take the value below zero fails with ErrConditionFailed.
	Increment(ctx context.Context, id, attribute string, delta int) (T, error)
}
