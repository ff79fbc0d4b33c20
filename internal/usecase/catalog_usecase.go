package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// ICatalogUseCase is plain CRUD over one catalog collection (customers, agents,
// employees, products, suppliers, vendors, inventory). No operation has side
// effects on other collections.
type ICatalogUseCase[T entities.Record[T]] interface {
	Create(ctx context.Context, r T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	// Update loads the record, lets apply overlay the caller's changes, then
	// validates and stores the result.
	Update(ctx context.Context, id string, apply func(current T) (T, error)) (T, error)
	Delete(ctx context.Context, id string) error
}

type CatalogUseCase[T entities.Record[T]] struct {
	repo interfaces.ICatalogRepository[T]
}

func NewCatalogUseCase[T entities.Record[T]](repo interfaces.ICatalogRepository[T]) *CatalogUseCase[T] {
	return &CatalogUseCase[T]{repo: repo}
}

func (u *CatalogUseCase[T]) kind() entities.CatalogKind {
	var zero T
	return zero.Kind()
}

func (u *CatalogUseCase[T]) Create(ctx context.Context, r T) (T, error) {
	var zero T
	if err := r.Validate(); err != nil {
		return zero, err
	}

	now := time.Now().UTC()
	r = r.WithIdentity(uuid.NewString(), now, now)

	created, err := u.repo.Create(ctx, r)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return zero, ErrRecordAlreadyExists
		}
		log.Printf("[%s][usecase] create failed key=%s err=%v", u.kind().Collection, r.UniqueKey(), err)
		return zero, err
	}
	log.Printf("[%s][usecase] created id=%s key=%s", u.kind().Collection, created.RecordID(), created.UniqueKey())
	return created, nil
}

func (u *CatalogUseCase[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, ErrInvalidRecordID
	}

	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if r.RecordID() == "" {
		return zero, ErrRecordNotFound
	}
	return r, nil
}

func (u *CatalogUseCase[T]) List(ctx context.Context) ([]T, error) {
	return u.repo.List(ctx)
}

func (u *CatalogUseCase[T]) Update(ctx context.Context, id string, apply func(current T) (T, error)) (T, error) {
	var zero T
	current, err := u.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	next, err := apply(current)
	if err != nil {
		return zero, err
	}
	// identity and creation time are never taken from the caller
	next = next.WithIdentity(current.RecordID(), current.Created(), time.Now().UTC())
	if err := next.Validate(); err != nil {
		return zero, err
	}

	updated, err := u.repo.Update(ctx, current, next)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return zero, ErrRecordAlreadyExists
		}
		return zero, err
	}
	if updated.RecordID() == "" {
		return zero, ErrRecordNotFound
	}
	return updated, nil
}

func (u *CatalogUseCase[T]) Delete(ctx context.Context, id string) error {
	r, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, r); err != nil {
		log.Printf("[%s][usecase] delete failed id=%s err=%v", u.kind().Collection, r.RecordID(), err)
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}
