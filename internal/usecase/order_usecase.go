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

// OrderPatch is a partial order update. Nil fields are left unchanged.
type OrderPatch struct {
	CustomerName *string
	AgentName    *string
	Items        []entities.LineItem
	Advance      *float64
	Status       *entities.OrderStatus
}

// IOrderUseCase exposes order operations. Orders are addressed either by their
// internal id or by their business key (ORD-001).
type IOrderUseCase interface {
	CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, ref string) (entities.Order, error)
	ListOrders(ctx context.Context, filter interfaces.OrderFilter) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, ref string, patch OrderPatch) (entities.Order, error)
	DeleteOrder(ctx context.Context, ref string) error
}

type OrderUseCase struct {
	repo interfaces.IOrderRepository
	seq  interfaces.ISequenceGenerator
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository, seq interfaces.ISequenceGenerator) *OrderUseCase {
	return &OrderUseCase{repo: repo, seq: seq}
}

func (u *OrderUseCase) CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	o.OrderID = strings.TrimSpace(o.OrderID)
	if o.Status == "" {
		o.Status = entities.OrderStatusNoEstimate
	}
	o.Reprice()
	if err := o.Validate(); err != nil {
		return entities.Order{}, err
	}

	if o.OrderID == "" {
		n, err := u.seq.Next(ctx, sequenceOrders)
		if err != nil {
			log.Printf("[order][usecase] sequence failed err=%v", err)
			return entities.Order{}, err
		}
		o.OrderID = entities.FormatBusinessKey(entities.OrderKeyPrefix, n)
	}

	now := time.Now().UTC()
	o.ID = uuid.NewString()
	o.EstimateID = nil
	o.CreatedAt = now
	o.UpdatedAt = now

	created, err := u.repo.Create(ctx, o)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return entities.Order{}, ErrOrderAlreadyExists
		}
		log.Printf("[order][usecase] create failed order_id=%s err=%v", o.OrderID, err)
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] created order_id=%s id=%s total=%.2f", created.OrderID, created.ID, created.Total)
	return created, nil
}

func (u *OrderUseCase) GetOrder(ctx context.Context, ref string) (entities.Order, error) {
	return u.resolve(ctx, ref)
}

// ListOrders returns the orders matching filter with their status normalized for
// display (see entities.OrderStatus.ForList). Nothing is written back.
func (u *OrderUseCase) ListOrders(ctx context.Context, filter interfaces.OrderFilter) ([]entities.Order, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Customer = strings.TrimSpace(filter.Customer)

	orders, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Status = orders[i].Status.ForList()
	}
	return orders, nil
}

// UpdateOrder applies patch to the latest stored order. The write is
// conditional on the version that was read; when another write lands in
// between, the order is re-read and the patch applied again.
func (u *OrderUseCase) UpdateOrder(ctx context.Context, ref string, patch OrderPatch) (entities.Order, error) {
	for attempt := 1; attempt <= orderUpdateAttempts; attempt++ {
		o, err := u.resolve(ctx, ref)
		if err != nil {
			return entities.Order{}, err
		}

		patch.apply(&o)
		o.Reprice()
		if err := o.Validate(); err != nil {
			return entities.Order{}, err
		}
		o.UpdatedAt = time.Now().UTC()

		updated, err := u.repo.Update(ctx, o)
		if errors.Is(err, interfaces.ErrConditionFailed) {
			log.Printf("[order][usecase] update raced order_id=%s attempt=%d", o.OrderID, attempt)
			continue
		}
		if err != nil {
			return entities.Order{}, err
		}
		if updated.ID == "" {
			return entities.Order{}, ErrOrderNotFound
		}
		return updated, nil
	}
	return entities.Order{}, ErrOrderConflict
}

func (p OrderPatch) apply(o *entities.Order) {
	if p.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.AgentName != nil {
		o.AgentName = strings.TrimSpace(*p.AgentName)
	}
	if p.Items != nil {
		o.Items = p.Items
	}
	if p.Advance != nil {
		o.Advance = *p.Advance
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
}

func (u *OrderUseCase) DeleteOrder(ctx context.Context, ref string) error {
	o, err := u.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, o); err != nil {
		log.Printf("[order][usecase] delete failed order_id=%s err=%v", o.OrderID, err)
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return ErrOrderNotFound
		}
		return err
	}
	log.Printf("[order][usecase] deleted order_id=%s", o.OrderID)
	return nil
}

// resolve finds an order by internal id first, then by business key.
func (u *OrderUseCase) resolve(ctx context.Context, ref string) (entities.Order, error) {
	return findOrder(ctx, u.repo, ref)
}

func findOrder(ctx context.Context, repo interfaces.IOrderRepository, ref string) (entities.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	o, err := repo.GetByID(ctx, ref)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID != "" {
		return o, nil
	}

	o, err = repo.GetByOrderID(ctx, ref)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}
