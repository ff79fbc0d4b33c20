package entities

import (
	"strings"
	"time"
)

// OrderStatus is the order's position relative to its estimate.
type OrderStatus string

const (
	OrderStatusNoEstimate       OrderStatus = "No Estimate"
	OrderStatusPending          OrderStatus = "Pending"
	OrderStatusProcessing       OrderStatus = "Processing"
	OrderStatusCompleted        OrderStatus = "Completed"
	OrderStatusGenerateEstimate OrderStatus = "Generate Estimate"
)

// ValidOrderStatuses are the values an order may be stored with.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusNoEstimate,
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusGenerateEstimate,
}

// listableOrderStatuses are the only values the order list endpoint shows.
var listableOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:          {},
	OrderStatusGenerateEstimate: {},
}

func (s OrderStatus) IsValid() bool {
	for _, v := range ValidOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ForList is the status as presented by the list endpoint. Legacy or unknown
// values read back as Pending. The stored value is untouched.
func (s OrderStatus) ForList() OrderStatus {
	if _, ok := listableOrderStatuses[s]; ok {
		return s
	}
	return OrderStatusPending
}

// Order is a customer purchase record.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (order_id-index): order_id
//
// EstimateID points at the estimate that currently drives Status; nil when the
// order has no estimate.
type Order struct {
	ID           string      `json:"id"`
	OrderID      string      `json:"order_id"`
	CustomerName string      `json:"customer_name"`
	AgentName    string      `json:"agent_name"`
	Items        []LineItem  `json:"items"`
	Total        float64     `json:"total"`
	Advance      float64     `json:"advance"`
	Balance      float64     `json:"balance"`
	Status       OrderStatus `json:"status"`
	EstimateID   *string     `json:"estimate_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	// Version counts writes to the order. A plain update only applies when the
	// stored version still matches the one it was read with.
	Version int64 `json:"-"`
}

// Reprice recomputes line totals, total and balance from items and advance.
func (o *Order) Reprice() {
	items, totals := PriceItems(o.Items, o.Advance)
	o.Items = items
	o.Total = totals.Total
	o.Advance = totals.Advance
	o.Balance = totals.Balance
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return requiredField("customer_name")
	}
	if len(o.Items) == 0 {
		return requiredField("items")
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	if o.Advance < 0 {
		return &ValidationError{Field: "advance", Reason: "must not be negative"}
	}
	if o.Advance > o.Total {
		return &ValidationError{Field: "advance", Reason: "must not exceed the order total"}
	}
	if !o.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "is not a valid order status"}
	}
	return nil
}

// HasEstimate reports whether the order is linked to an estimate.
func (o Order) HasEstimate() bool {
	return o.EstimateID != nil && *o.EstimateID != ""
}
