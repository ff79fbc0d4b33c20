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

// CreateEstimateCommand carries what a caller may set on a new estimate. Blank
// fields fall back to the referenced order.
type CreateEstimateCommand struct {
	OrderID      string
	EstimateID   string
	CustomerName string
	AgentName    string
	Notes        string
	Items        []entities.LineItem
}

// EstimatePatch is a partial estimate update. Nil fields are left unchanged.
type EstimatePatch struct {
	CustomerName *string
	AgentName    *string
	Notes        *string
	Items        []entities.LineItem
	Advance      *float64
	Status       *entities.EstimateStatus
}

// IEstimateUseCase keeps an order's status and estimate link in step with the
// lifecycle of its estimate:
//   - creating an estimate links the order and marks it Pending
//   - updating an estimate to Completed marks the order Completed
//   - deleting an estimate unlinks the order and marks it No Estimate
//
// Estimates are addressed either by internal id or by business key (EST-001).
type IEstimateUseCase interface {
	CreateEstimate(ctx context.Context, cmd CreateEstimateCommand) (entities.Estimate, error)
	GetEstimate(ctx context.Context, ref string) (entities.Estimate, error)
	ListEstimates(ctx context.Context, filter interfaces.EstimateFilter) ([]entities.Estimate, error)
	UpdateEstimate(ctx context.Context, ref string, patch EstimatePatch) (entities.Estimate, error)
	DeleteEstimate(ctx context.Context, ref string) error
}

type EstimateUseCase struct {
	repo   interfaces.IEstimateRepository
	orders interfaces.IOrderRepository
	seq    interfaces.ISequenceGenerator
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository, orders interfaces.IOrderRepository, seq interfaces.ISequenceGenerator) *EstimateUseCase {
	return &EstimateUseCase{repo: repo, orders: orders, seq: seq}
}

func (u *EstimateUseCase) CreateEstimate(ctx context.Context, cmd CreateEstimateCommand) (entities.Estimate, error) {
	orderID := strings.TrimSpace(cmd.OrderID)
	if orderID == "" {
		return entities.Estimate{}, ErrInvalidOrderID
	}

	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return entities.Estimate{}, err
	}
	if order.ID == "" {
		log.Printf("[estimate][usecase] order not found order_id=%s", orderID)
		return entities.Estimate{}, ErrOrderNotFound
	}

	items := cmd.Items
	if len(items) == 0 {
		items = order.Items
	}
	if len(items) == 0 {
		log.Printf("[estimate][usecase] order has no items order_id=%s", orderID)
		return entities.Estimate{}, ErrEstimateNoItems
	}

	e := entities.Estimate{
		EstimateID:   strings.TrimSpace(cmd.EstimateID),
		OrderID:      order.OrderID,
		CustomerName: firstNonBlank(cmd.CustomerName, order.CustomerName),
		AgentName:    firstNonBlank(cmd.AgentName, order.AgentName),
		Items:        append([]entities.LineItem(nil), items...),
		Advance:      order.Advance,
		Status:       entities.EstimateStatusPending,
		Notes:        strings.TrimSpace(cmd.Notes),
	}
	e.Reprice()
	if err := e.Validate(); err != nil {
		return entities.Estimate{}, err
	}

	if e.EstimateID == "" {
		n, err := u.seq.Next(ctx, sequenceEstimates)
		if err != nil {
			log.Printf("[estimate][usecase] sequence failed order_id=%s err=%v", orderID, err)
			return entities.Estimate{}, err
		}
		e.EstimateID = entities.FormatBusinessKey(entities.EstimateKeyPrefix, n)
	}

	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now

	created, err := u.repo.CreateLinked(ctx, e, order)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrDuplicateKey):
			return entities.Estimate{}, ErrEstimateAlreadyExists
		case errors.Is(err, interfaces.ErrConditionFailed):
			// the order disappeared between the read and the transaction
			return entities.Estimate{}, ErrOrderNotFound
		}
		log.Printf("[estimate][usecase] create failed estimate_id=%s order_id=%s err=%v", e.EstimateID, orderID, err)
		return entities.Estimate{}, err
	}
	log.Printf("[estimate][usecase] created estimate_id=%s order_id=%s total=%.2f", created.EstimateID, created.OrderID, created.Total)
	return created, nil
}

func (u *EstimateUseCase) GetEstimate(ctx context.Context, ref string) (entities.Estimate, error) {
	return u.resolve(ctx, ref)
}

func (u *EstimateUseCase) ListEstimates(ctx context.Context, filter interfaces.EstimateFilter) ([]entities.Estimate, error) {
	filter.OrderID = strings.TrimSpace(filter.OrderID)
	filter.Status = strings.TrimSpace(filter.Status)
	return u.repo.List(ctx, filter)
}

func (u *EstimateUseCase) UpdateEstimate(ctx context.Context, ref string, patch EstimatePatch) (entities.Estimate, error) {
	e, err := u.resolve(ctx, ref)
	if err != nil {
		return entities.Estimate{}, err
	}

	if patch.CustomerName != nil {
		e.CustomerName = strings.TrimSpace(*patch.CustomerName)
	}
	if patch.AgentName != nil {
		e.AgentName = strings.TrimSpace(*patch.AgentName)
	}
	if patch.Notes != nil {
		e.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.Items != nil {
		e.Items = patch.Items
	}
	if patch.Advance != nil {
		e.Advance = *patch.Advance
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	e.Reprice()
	if err := e.Validate(); err != nil {
		return entities.Estimate{}, err
	}
	e.UpdatedAt = time.Now().UTC()

	// Only an explicit transition to Completed touches the order.
	var completedOrder *entities.Order
	if patch.Status != nil && *patch.Status == entities.EstimateStatusCompleted {
		order, err := u.parentOrder(ctx, e)
		if err != nil {
			return entities.Estimate{}, err
		}
		completedOrder = order
	}

	updated, err := u.repo.Update(ctx, e, completedOrder)
	if err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return entities.Estimate{}, ErrOrderNotFound
		}
		log.Printf("[estimate][usecase] update failed estimate_id=%s err=%v", e.EstimateID, err)
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	if completedOrder != nil {
		log.Printf("[estimate][usecase] estimate completed estimate_id=%s order_id=%s", updated.EstimateID, completedOrder.OrderID)
	}
	return updated, nil
}

func (u *EstimateUseCase) DeleteEstimate(ctx context.Context, ref string) error {
	e, err := u.resolve(ctx, ref)
	if err != nil {
		return err
	}

	order, err := u.parentOrder(ctx, e)
	if err != nil {
		return err
	}

	if err := u.repo.DeleteLinked(ctx, e, order); err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return ErrEstimateNotFound
		}
		log.Printf("[estimate][usecase] delete failed estimate_id=%s err=%v", e.EstimateID, err)
		return err
	}
	log.Printf("[estimate][usecase] deleted estimate_id=%s order_id=%s", e.EstimateID, e.OrderID)
	return nil
}

// parentOrder loads the order an estimate references. A missing order is not an
// error: the estimate change then proceeds on its own.
func (u *EstimateUseCase) parentOrder(ctx context.Context, e entities.Estimate) (*entities.Order, error) {
	order, err := u.orders.GetByOrderID(ctx, e.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ID == "" {
		log.Printf("[estimate][usecase] parent order missing estimate_id=%s order_id=%s", e.EstimateID, e.OrderID)
		return nil, nil
	}
	return &order, nil
}

// resolve finds an estimate by internal id first, then by business key.
func (u *EstimateUseCase) resolve(ctx context.Context, ref string) (entities.Estimate, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, ref)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID != "" {
		return e, nil
	}

	e, err = u.repo.GetByEstimateID(ctx, ref)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
