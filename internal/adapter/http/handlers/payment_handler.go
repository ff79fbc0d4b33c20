package handlers

import (
	"log"
	"net/http"

	request "bizdesk/internal/adapter/http/dto/request"
	response "bizdesk/internal/adapter/http/dto/response"
	"bizdesk/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles advance payments on orders.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePayment godoc
// @Summary      Record an advance payment
// @Description  Charges the amount through the payment gateway. Approved payments move the amount from balance to advance.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Order id or key"
// @Param        payment  body      request.PaymentCreateRequest  true  "Payment"
// @Success      201      {object}  response.PaymentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Router       /orders/{id}/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	orderRef := c.Param("id")
	log.Printf("[payment][handler] create start order=%s", orderRef)

	var payload request.PaymentCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[payment][handler] invalid payload order=%s err=%v", orderRef, err)
		abortWithError(c, invalidPayload("payment"))
		return
	}

	created, err := h.usecase.RecordAdvance(c.Request.Context(), orderRef, payload.Amount, payload.Method, payload.MPPayload)
	if err != nil {
		log.Printf("[payment][handler] create failed order=%s err=%v", orderRef, err)
		abortWithError(c, mapPaymentError(err))
		return
	}
	log.Printf("[payment][handler] create success order=%s payment_id=%s status=%s", orderRef, created.ID, created.Status)

	c.JSON(http.StatusCreated, response.FromPayment(created))
}

// ListPayments godoc
// @Summary  List the payments of an order
// @Tags     payments
// @Produce  json
// @Param    id   path      string  true  "Order id or key"
// @Success  200  {array}   response.PaymentResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /orders/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.usecase.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, mapPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayments(payments))
}
