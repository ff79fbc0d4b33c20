package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

const inventoryQuantityAttribute = "quantity"

// IInventoryUseCase is catalog CRUD for inventory plus stock adjustments.
type IInventoryUseCase interface {
	ICatalogUseCase[entities.InventoryItem]
	AdjustQuantity(ctx context.Context, id string, delta int) (entities.InventoryItem, error)
}

type InventoryUseCase struct {
	*CatalogUseCase[entities.InventoryItem]
	repo interfaces.ICatalogRepository[entities.InventoryItem]
}

var _ IInventoryUseCase = (*InventoryUseCase)(nil)

func NewInventoryUseCase(repo interfaces.ICatalogRepository[entities.InventoryItem]) *InventoryUseCase {
	return &InventoryUseCase{CatalogUseCase: NewCatalogUseCase(repo), repo: repo}
}

// AdjustQuantity adds delta (which may be negative) to the stock on hand.
// Stock never goes below zero.
func (u *InventoryUseCase) AdjustQuantity(ctx context.Context, id string, delta int) (entities.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.InventoryItem{}, ErrInvalidRecordID
	}
	if delta == 0 {
		return u.Get(ctx, id)
	}

	item, err := u.repo.Increment(ctx, id, inventoryQuantityAttribute, delta)
	if err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return entities.InventoryItem{}, ErrInsufficientStock
		}
		log.Printf("[inventory][usecase] adjust failed id=%s delta=%d err=%v", id, delta, err)
		return entities.InventoryItem{}, err
	}
	if item.ID == "" {
		return entities.InventoryItem{}, ErrRecordNotFound
	}
	if item.NeedsReorder() {
		log.Printf("[inventory][usecase] reorder level reached product_code=%s quantity=%d reorder_level=%d", item.ProductCode, item.Quantity, item.ReorderLevel)
	}
	return item, nil
}
