package entities

import "time"

// EstimateStatus represents the lifecycle of an estimate.
type EstimateStatus string

const (
	EstimateStatusPending   EstimateStatus = "Pending"
	EstimateStatusCompleted EstimateStatus = "Completed"
)

func (s EstimateStatus) IsValid() bool {
	return s == EstimateStatusPending || s == EstimateStatusCompleted
}

// Estimate is a quotation generated from an order. Items and totals are a snapshot
// taken when the estimate was created.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (estimate_id-index): estimate_id
//   - GSI (order_id-index): order_id
type Estimate struct {
	ID           string         `json:"id"`
	EstimateID   string         `json:"estimate_id"`
	OrderID      string         `json:"order_id"`
	CustomerName string         `json:"customer_name"`
	AgentName    string         `json:"agent_name"`
	Items        []LineItem     `json:"items"`
	Total        float64        `json:"total"`
	Advance      float64        `json:"advance"`
	Balance      float64        `json:"balance"`
	Status       EstimateStatus `json:"status"`
	Notes        string         `json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (e *Estimate) Reprice() {
	items, totals := PriceItems(e.Items, e.Advance)
	e.Items = items
	e.Total = totals.Total
	e.Advance = totals.Advance
	e.Balance = totals.Balance
}

func (e Estimate) Validate() error {
	if e.OrderID == "" {
		return requiredField("order_id")
	}
	if len(e.Items) == 0 {
		return requiredField("items")
	}
	if err := validateItems(e.Items); err != nil {
		return err
	}
	if !e.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "is not a valid estimate status"}
	}
	return nil
}
