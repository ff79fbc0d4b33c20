package response

import (
	"time"

	"bizdesk/internal/domain/entities"
)

type LineItemResponse struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"`
	Total       float64 `json:"total"`
}

type OrderResponse struct {
	ID           string             `json:"id"`
	OrderID      string             `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	AgentName    string             `json:"agent_name"`
	Items        []LineItemResponse `json:"items"`
	Total        float64            `json:"total"`
	Advance      float64            `json:"advance"`
	Balance      float64            `json:"balance"`
	Status       string             `json:"status"`
	EstimateID   *string            `json:"estimate_id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// MessageResponse acknowledges operations that have no body to return.
type MessageResponse struct {
	Message string `json:"message"`
}

func FromLineItems(items []entities.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, it := range items {
		out[i] = LineItemResponse(it)
	}
	return out
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		OrderID:      o.OrderID,
		CustomerName: o.CustomerName,
		AgentName:    o.AgentName,
		Items:        FromLineItems(o.Items),
		Total:        o.Total,
		Advance:      o.Advance,
		Balance:      o.Balance,
		Status:       string(o.Status),
		EstimateID:   o.EstimateID,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func FromOrders(orders []entities.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}
