package request

import (
	"strings"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase"
)

// OrderCreateRequest creates an order. order_id is optional; when blank the
// next ORD-### key is generated.
type OrderCreateRequest struct {
	OrderID      string            `json:"order_id"`
	CustomerName string            `json:"customer_name"`
	AgentName    string            `json:"agent_name"`
	Items        []LineItemRequest `json:"items" binding:"dive"`
	Advance      float64           `json:"advance" binding:"gte=0"`
	Status       string            `json:"status"`
}

func (r OrderCreateRequest) ToEntity() entities.Order {
	return entities.Order{
		OrderID:      strings.TrimSpace(r.OrderID),
		CustomerName: r.CustomerName,
		AgentName:    r.AgentName,
		Items:        toLineItems(r.Items),
		Advance:      r.Advance,
		Status:       entities.OrderStatus(strings.TrimSpace(r.Status)),
	}
}

// OrderUpdateRequest is a partial update; omitted fields are left unchanged.
type OrderUpdateRequest struct {
	CustomerName *string           `json:"customer_name"`
	AgentName    *string           `json:"agent_name"`
	Items        []LineItemRequest `json:"items" binding:"omitempty,dive"`
	Advance      *float64          `json:"advance" binding:"omitempty,gte=0"`
	Status       *string           `json:"status"`
}

func (r OrderUpdateRequest) ToPatch() usecase.OrderPatch {
	patch := usecase.OrderPatch{
		CustomerName: r.CustomerName,
		AgentName:    r.AgentName,
		Items:        toLineItems(r.Items),
		Advance:      r.Advance,
	}
	if s := trimmed(r.Status); s != nil {
		status := entities.OrderStatus(*s)
		patch.Status = &status
	}
	return patch
}
