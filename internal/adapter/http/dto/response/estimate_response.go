package response

import (
	"time"

	"bizdesk/internal/domain/entities"
)

type EstimateResponse struct {
	ID           string             `json:"id"`
	EstimateID   string             `json:"estimate_id"`
	OrderID      string             `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	AgentName    string             `json:"agent_name"`
	Items        []LineItemResponse `json:"items"`
	Total        float64            `json:"total"`
	Advance      float64            `json:"advance"`
	Balance      float64            `json:"balance"`
	Status       string             `json:"status"`
	Notes        string             `json:"notes"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:           e.ID,
		EstimateID:   e.EstimateID,
		OrderID:      e.OrderID,
		CustomerName: e.CustomerName,
		AgentName:    e.AgentName,
		Items:        FromLineItems(e.Items),
		Total:        e.Total,
		Advance:      e.Advance,
		Balance:      e.Balance,
		Status:       string(e.Status),
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromEstimates(estimates []entities.Estimate) []EstimateResponse {
	out := make([]EstimateResponse, len(estimates))
	for i, e := range estimates {
		out[i] = FromEstimate(e)
	}
	return out
}
