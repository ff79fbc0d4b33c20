package request

import (
	"strings"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase"
)

// EstimateCreateRequest creates an estimate for an existing order. Omitted
// customer, agent and items are copied from the order.
type EstimateCreateRequest struct {
	OrderID      string            `json:"order_id"`
	EstimateID   string            `json:"estimate_id"`
	CustomerName string            `json:"customer_name"`
	AgentName    string            `json:"agent_name"`
	Notes        string            `json:"notes"`
	Items        []LineItemRequest `json:"items" binding:"omitempty,dive"`
}

func (r EstimateCreateRequest) ToCommand() usecase.CreateEstimateCommand {
	return usecase.CreateEstimateCommand{
		OrderID:      strings.TrimSpace(r.OrderID),
		EstimateID:   strings.TrimSpace(r.EstimateID),
		CustomerName: r.CustomerName,
		AgentName:    r.AgentName,
		Notes:        r.Notes,
		Items:        toLineItems(r.Items),
	}
}

// EstimateUpdateRequest is a partial update. Setting status to Completed also
// completes the parent order.
type EstimateUpdateRequest struct {
	CustomerName *string           `json:"customer_name"`
	AgentName    *string           `json:"agent_name"`
	Notes        *string           `json:"notes"`
	Items        []LineItemRequest `json:"items" binding:"omitempty,dive"`
	Advance      *float64          `json:"advance" binding:"omitempty,gte=0"`
	Status       *string           `json:"status"`
}

func (r EstimateUpdateRequest) ToPatch() usecase.EstimatePatch {
	patch := usecase.EstimatePatch{
		CustomerName: r.CustomerName,
		AgentName:    r.AgentName,
		Notes:        r.Notes,
		Items:        toLineItems(r.Items),
		Advance:      r.Advance,
	}
	if s := trimmed(r.Status); s != nil {
		status := entities.EstimateStatus(*s)
		patch.Status = &status
	}
	return patch
}
