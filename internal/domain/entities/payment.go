package entities

import (
	"encoding/json"
	"time"
)

// PaymentStatus represents the payment processing outcome.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDenied   PaymentStatus = "denied"
)

// Payment is an advance paid against an order.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (order_id-index): order_id
//
// MPPayloadRaw keeps the provider response as received; MPPayload is the parsed
// form used for querying and debugging.
type Payment struct {
	ID                string        `json:"id"`
	OrderID           string        `json:"order_id"`
	Amount            float64       `json:"amount"`
	Method            string        `json:"method"`
	ProviderPaymentID string        `json:"provider_payment_id"`
	Date              time.Time     `json:"date"`
	Status            PaymentStatus `json:"status"`

	MPPayloadRaw json.RawMessage        `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}
