package handlers

import (
	"log"
	"net/http"

	request "bizdesk/internal/adapter/http/dto/request"
	response "bizdesk/internal/adapter/http/dto/response"
	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves plain CRUD for one catalog collection. R is the
// request body type of that collection.
type CatalogHandler[T entities.Record[T], R request.CatalogRequest[T]] struct {
	usecase usecase.ICatalogUseCase[T]
	kind    entities.CatalogKind
}

func NewCatalogHandler[T entities.Record[T], R request.CatalogRequest[T]](uc usecase.ICatalogUseCase[T]) *CatalogHandler[T, R] {
	var zero T
	return &CatalogHandler[T, R]{usecase: uc, kind: zero.Kind()}
}

func (h *CatalogHandler[T, R]) Create(c *gin.Context) {
	var payload R
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[%s][handler] invalid payload err=%v", h.kind.Collection, err)
		abortWithError(c, invalidPayload(h.kind.Name))
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), payload.ToRecord())
	if err != nil {
		abortWithError(c, mapCatalogError(h.kind, err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler[T, R]) List(c *gin.Context) {
	records, err := h.usecase.List(c.Request.Context())
	if err != nil {
		abortWithError(c, mapCatalogError(h.kind, err))
		return
	}
	if records == nil {
		records = []T{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *CatalogHandler[T, R]) Get(c *gin.Context) {
	record, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, mapCatalogError(h.kind, err))
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *CatalogHandler[T, R]) Update(c *gin.Context) {
	var payload R
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[%s][handler] invalid payload id=%s err=%v", h.kind.Collection, c.Param("id"), err)
		abortWithError(c, invalidPayload(h.kind.Name))
		return
	}

	updated, err := h.usecase.Update(c.Request.Context(), c.Param("id"), func(current T) (T, error) {
		return payload.Apply(current), nil
	})
	if err != nil {
		abortWithError(c, mapCatalogError(h.kind, err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler[T, R]) Delete(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, mapCatalogError(h.kind, err))
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: capitalize(h.kind.Name) + " deleted"})
}

// InventoryHandler adds stock movements on top of inventory CRUD.
type InventoryHandler struct {
	*CatalogHandler[entities.InventoryItem, request.InventoryItemRequest]
	inventory usecase.IInventoryUseCase
}

func NewInventoryHandler(uc usecase.IInventoryUseCase) *InventoryHandler {
	return &InventoryHandler{
		CatalogHandler: NewCatalogHandler[entities.InventoryItem, request.InventoryItemRequest](uc),
		inventory:      uc,
	}
}

// Increment godoc
// @Summary      Adjust inventory quantity
// @Description  Atomically adds delta to the quantity. The quantity never goes below zero.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id     path      string                             true  "Inventory item id"
// @Param        delta  body      request.InventoryIncrementRequest  true  "Delta"
// @Success      200    {object}  entities.InventoryItem
// @Failure      400    {object}  pkg.HTTPError
// @Failure      404    {object}  pkg.HTTPError
// @Router       /inventory/{id}/increment [post]
func (h *InventoryHandler) Increment(c *gin.Context) {
	var payload request.InventoryIncrementRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, invalidPayload(h.kind.Name))
		return
	}

	item, err := h.inventory.AdjustQuantity(c.Request.Context(), c.Param("id"), payload.Value())
	if err != nil {
		abortWithError(c, mapCatalogError(h.kind, err))
		return
	}
	c.JSON(http.StatusOK, item)
}
