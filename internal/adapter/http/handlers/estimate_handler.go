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

// EstimateHandler handles HTTP requests for estimates. Order status changes
// driven by the estimate lifecycle happen in the use case.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

// CreateEstimate godoc
// @Summary      Create an estimate for an order
// @Description  Links the order and sets its status to Pending. Items default to the order's items.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        estimate  body      request.EstimateCreateRequest  true  "Estimate"
// @Success      201       {object}  response.EstimateResponse
// @Failure      400       {object}  pkg.HTTPError
// @Failure      404       {object}  pkg.HTTPError
// @Router       /estimates [post]
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var payload request.EstimateCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[estimate][handler] invalid payload err=%v", err)
		abortWithError(c, invalidPayload("estimate"))
		return
	}

	estimate, err := h.usecase.CreateEstimate(c.Request.Context(), payload.ToCommand())
	if err != nil {
		abortWithError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromEstimate(estimate))
}

// ListEstimates godoc
// @Summary  List estimates
// @Tags     estimates
// @Produce  json
// @Param    order_id  query     string  false  "Order key"
// @Param    status    query     string  false  "Estimate status"
// @Success  200       {array}   response.EstimateResponse
// @Router   /estimates [get]
func (h *EstimateHandler) ListEstimates(c *gin.Context) {
	filter := interfaces.EstimateFilter{
		OrderID: strings.TrimSpace(c.Query("order_id")),
		Status:  strings.TrimSpace(c.Query("status")),
	}
	estimates, err := h.usecase.ListEstimates(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimates(estimates))
}

// GetEstimate godoc
// @Summary  Get an estimate by id or EST-### key
// @Tags     estimates
// @Produce  json
// @Param    id   path      string  true  "Estimate id or key"
// @Success  200  {object}  response.EstimateResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /estimates/{id} [get]
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	estimate, err := h.usecase.GetEstimate(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// UpdateEstimate godoc
// @Summary      Update an estimate
// @Description  Setting status to Completed also completes the parent order.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id        path      string                         true  "Estimate id or key"
// @Param        estimate  body      request.EstimateUpdateRequest  true  "Fields to change"
// @Success      200       {object}  response.EstimateResponse
// @Failure      400       {object}  pkg.HTTPError
// @Failure      404       {object}  pkg.HTTPError
// @Router       /estimates/{id} [put]
func (h *EstimateHandler) UpdateEstimate(c *gin.Context) {
	var payload request.EstimateUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[estimate][handler] invalid payload id=%s err=%v", c.Param("id"), err)
		abortWithError(c, invalidPayload("estimate"))
		return
	}

	estimate, err := h.usecase.UpdateEstimate(c.Request.Context(), c.Param("id"), payload.ToPatch())
	if err != nil {
		abortWithError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// DeleteEstimate godoc
// @Summary      Delete an estimate
// @Description  Unlinks the parent order and resets its status to No Estimate.
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate id or key"
// @Success      200  {object}  response.MessageResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /estimates/{id} [delete]
func (h *EstimateHandler) DeleteEstimate(c *gin.Context) {
	if err := h.usecase.DeleteEstimate(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Estimate deleted"})
}
