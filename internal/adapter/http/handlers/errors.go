package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase"
	"bizdesk/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errOrderNotFound    = pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	errEstimateNotFound = pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
)

func abortWithError(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func invalidPayload(entity string) *pkg.AppError {
	return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid "+entity+" payload", http.StatusBadRequest)
}

func internalError(err error) *pkg.AppError {
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

// validationError renders entity validation failures ("customer_name is required").
func validationError(err error) (*pkg.AppError, bool) {
	var ve *entities.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	return pkg.NewDomainError("VALIDATION_ERROR", ve.Error(), err, http.StatusBadRequest), true
}

func mapOrderError(err error) *pkg.AppError {
	if appErr, ok := validationError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "order_id is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderAlreadyExists):
		return pkg.NewDomainErrorSimple("ORDER_ALREADY_EXISTS", "An order with this ID already exists", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return errOrderNotFound
	case errors.Is(err, usecase.ErrOrderConflict):
		return pkg.NewDomainErrorSimple("ORDER_CONFLICT", "Order was modified by another request", http.StatusConflict)
	default:
		return internalError(err)
	}
}

func mapEstimateError(err error) *pkg.AppError {
	if appErr, ok := validationError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "order_id is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidEstimateID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "estimate_id is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEstimateNoItems):
		return pkg.NewDomainErrorSimple("ESTIMATE_NO_ITEMS", "Order has no items to estimate", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEstimateAlreadyExists):
		return pkg.NewDomainErrorSimple("ESTIMATE_ALREADY_EXISTS", "An estimate with this ID already exists", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return errOrderNotFound
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return errEstimateNotFound
	default:
		return internalError(err)
	}
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID), errors.Is(err, usecase.ErrInvalidPaymentAmount),
		errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return errOrderNotFound
	case errors.Is(err, usecase.ErrPaymentExceedsBalance):
		return pkg.NewDomainErrorSimple("PAYMENT_EXCEEDS_BALANCE", "Payment exceeds the order balance", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentGatewayUnavailable):
		return pkg.NewDomainError("PAYMENT_GATEWAY_UNAVAILABLE", "Payment gateway unavailable", err, http.StatusInternalServerError)
	default:
		return internalError(err)
	}
}

func mapCatalogError(kind entities.CatalogKind, err error) *pkg.AppError {
	if appErr, ok := validationError(err); ok {
		return appErr
	}
	code := strings.ToUpper(strings.ReplaceAll(kind.Name, " ", "_"))
	switch {
	case errors.Is(err, usecase.ErrInvalidRecordID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "id is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRecordNotFound):
		return pkg.NewDomainErrorSimple(code+"_NOT_FOUND", capitalize(kind.Name)+" not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrRecordAlreadyExists):
		msg := article(kind.Name) + " " + kind.Name + " with this " + kind.KeyLabel + " already exists"
		return pkg.NewDomainErrorSimple(code+"_ALREADY_EXISTS", msg, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInsufficientStock):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_STOCK", "Quantity cannot go below zero", http.StatusBadRequest)
	default:
		return internalError(err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func article(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "An"
	}
	return "A"
}
