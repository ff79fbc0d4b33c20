package handlers

import (
	"log"
	"net/http"
	"strings"

	request "bizdesk/internal/adapter/http/dto/request"
	response "bizdesk/internal/adapter/http/dto/response"
	"bizdesk/internal/usecase"
	"bizdesk/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder godoc
// @Summary      Create an order
// @Description  Totals are computed server side. A blank order_id gets the next ORD-### key.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      request.OrderCreateRequest  true  "Order"
// @Success      201    {object}  response.OrderResponse
// @Failure      400    {object}  pkg.HTTPError
// @Failure      500    {object}  pkg.HTTPError
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.OrderCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[order][handler] invalid payload err=%v", err)
		abortWithError(c, invalidPayload("order"))
		return
	}

	created, err := h.usecase.CreateOrder(c.Request.Context(), payload.ToEntity())
	if err != nil {
		abortWithError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromOrder(created))
}

// ListOrders godoc
// @Summary      List orders
// @Description  Statuses other than Pending and Generate Estimate are shown as Pending.
// @Tags         orders
// @Produce      json
// @Param        status    query     string  false  "Stored status (exact match)"
// @Param        customer  query     string  false  "Customer name (case-insensitive substring)"
// @Success      200       {array}   response.OrderResponse
// @Failure      500       {object}  pkg.HTTPError
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := interfaces.OrderFilter{
		Status:   strings.TrimSpace(c.Query("status")),
		Customer: strings.TrimSpace(c.Query("customer")),
	}
	orders, err := h.usecase.ListOrders(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrders(orders))
}

// GetOrder godoc
// @Summary  Get an order by id or ORD-### key
// @Tags     orders
// @Produce  json
// @Param    id   path      string  true  "Order id or key"
// @Success  200  {object}  response.OrderResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.usecase.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

// UpdateOrder godoc
// @Summary  Update an order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id     path      string                      true  "Order id or key"
// @Param    order  body      request.OrderUpdateRequest  true  "Fields to change"
// @Success  200    {object}  response.OrderResponse
// @Failure  400    {object}  pkg.HTTPError
// @Failure  404    {object}  pkg.HTTPError
// @Failure  409    {object}  pkg.HTTPError
// @Router   /orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var payload request.OrderUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[order][handler] invalid payload id=%s err=%v", c.Param("id"), err)
		abortWithError(c, invalidPayload("order"))
		return
	}

	updated, err := h.usecase.UpdateOrder(c.Request.Context(), c.Param("id"), payload.ToPatch())
	if err != nil {
		abortWithError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(updated))
}

// DeleteOrder godoc
// @Summary  Delete an order
// @Tags     orders
// @Produce  json
// @Param    id   path      string  true  "Order id or key"
// @Success  200  {object}  response.MessageResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.usecase.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Order deleted"})
}
