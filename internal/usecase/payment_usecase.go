package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"
)

var (
	ErrInvalidPaymentAmount      = errors.New("invalid payment amount")
	ErrInvalidMPPayload          = errors.New("invalid mercado pago payload")
	ErrPaymentExceedsBalance     = errors.New("payment exceeds order balance")
	ErrPaymentGatewayBadRequest  = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnavailable = errors.New("payment gateway not configured")
)

// IPaymentUseCase records advance payments against orders.
//
// An approved payment moves its amount from the order balance to the order advance.
// Payments the provider did not approve are stored for traceability only.
type IPaymentUseCase interface {
	RecordAdvance(ctx context.Context, orderRef string, amount float64, method string, mpPayload json.RawMessage) (entities.Payment, error)
	ListByOrder(ctx context.Context, orderRef string) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo    interfaces.IPaymentRepository
	orders  interfaces.IOrderRepository
	gateway interfaces.IPaymentGateway
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, orders interfaces.IOrderRepository, gateway interfaces.IPaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, orders: orders, gateway: gateway}
}

func (u *PaymentUseCase) RecordAdvance(ctx context.Context, orderRef string, amount float64, method string, mpPayload json.RawMessage) (entities.Payment, error) {
	log.Printf("[payment][usecase] record-advance start order_ref=%q amount=%.2f payload_len=%d", orderRef, amount, len(mpPayload))
	if amount <= 0 {
		return entities.Payment{}, ErrInvalidPaymentAmount
	}
	if len(mpPayload) == 0 {
		mpPayload = json.RawMessage("{}")
	}
	if !json.Valid(mpPayload) {
		log.Printf("[payment][usecase] invalid payload (not-json) order_ref=%s", orderRef)
		return entities.Payment{}, ErrInvalidMPPayload
	}
	if u.gateway == nil {
		log.Printf("[payment][usecase] gateway not configured order_ref=%s", orderRef)
		return entities.Payment{}, ErrPaymentGatewayUnavailable
	}

	order, err := findOrder(ctx, u.orders, orderRef)
	if err != nil {
		log.Printf("[payment][usecase] failed loading order order_ref=%s err=%v", orderRef, err)
		return entities.Payment{}, err
	}
	if amount > order.Balance {
		log.Printf("[payment][usecase] amount exceeds balance order_id=%s amount=%.2f balance=%.2f", order.OrderID, amount, order.Balance)
		return entities.Payment{}, ErrPaymentExceedsBalance
	}

	method = strings.TrimSpace(method)
	payload, err := enrichPaymentPayload(mpPayload, order, amount, method)
	if err != nil {
		return entities.Payment{}, ErrInvalidMPPayload
	}

	log.Printf("[payment][usecase] calling payment gateway order_id=%s", order.OrderID)
	providerPaymentID, providerStatus, providerResp, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		log.Printf("[payment][usecase] payment gateway failed order_id=%s err=%v", order.OrderID, err)
		if isGatewayBadRequest(err) {
			return entities.Payment{}, ErrPaymentGatewayBadRequest
		}
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] payment gateway success order_id=%s provider_payment_id=%s provider_status=%s", order.OrderID, providerPaymentID, providerStatus)

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Printf("[payment][usecase] provider response unmarshal failed order_id=%s err=%v", order.OrderID, err)
	}

	p := entities.Payment{
		ID:                fmt.Sprintf("%s-%s", order.OrderID, providerPaymentID),
		OrderID:           order.OrderID,
		Amount:            amount,
		Method:            method,
		ProviderPaymentID: providerPaymentID,
		Date:              time.Now().UTC(),
		Status:            paymentStatusFromProvider(providerStatus),
		MPPayloadRaw:      providerResp,
		MPPayload:         parsed,
	}

	var applyTo *entities.Order
	if p.Status == entities.PaymentStatusApproved {
		applyTo = &order
	}

	created, err := u.repo.Create(ctx, p, applyTo)
	if err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return entities.Payment{}, ErrPaymentExceedsBalance
		}
		log.Printf("[payment][usecase] payment repository create failed order_id=%s payment_id=%s err=%v", order.OrderID, p.ID, err)
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] record-advance success order_id=%s payment_id=%s status=%s", order.OrderID, created.ID, created.Status)
	return created, nil
}

func (u *PaymentUseCase) ListByOrder(ctx context.Context, orderRef string) ([]entities.Payment, error) {
	order, err := findOrder(ctx, u.orders, orderRef)
	if err != nil {
		return nil, err
	}
	return u.repo.ListByOrderID(ctx, order.OrderID)
}

// enrichPaymentPayload links the provider request to the order. The amount always
// comes from the caller's validated value, never from the raw payload.
func enrichPaymentPayload(raw json.RawMessage, order entities.Order, amount float64, method string) (json.RawMessage, error) {
	var reqMap map[string]any
	if err := json.Unmarshal(raw, &reqMap); err != nil {
		return nil, err
	}
	if reqMap == nil {
		reqMap = map[string]any{}
	}
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = order.OrderID
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("Advance for order %s", order.OrderID)
	}
	if _, ok := reqMap["payment_method_id"]; !ok && method != "" {
		reqMap["payment_method_id"] = method
	}
	reqMap["transaction_amount"] = amount
	return json.Marshal(reqMap)
}

func paymentStatusFromProvider(status string) entities.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved", "authorized":
		return entities.PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.PaymentStatusDenied
	default:
		return entities.PaymentStatusPending
	}
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}
