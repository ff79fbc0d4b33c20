package response

import (
	"time"

	"bizdesk/internal/domain/entities"
)

type PaymentResponse struct {
	PaymentID         string    `json:"payment_id"`
	OrderID           string    `json:"order_id"`
	Amount            float64   `json:"amount"`
	Method            string    `json:"method"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	Date              time.Time `json:"date"`
	Status            string    `json:"status"`

	MPPayloadRaw string                 `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:         p.ID,
		OrderID:           p.OrderID,
		Amount:            p.Amount,
		Method:            p.Method,
		ProviderPaymentID: p.ProviderPaymentID,
		Date:              p.Date,
		Status:            string(p.Status),
		MPPayloadRaw:      string(p.MPPayloadRaw),
		MPPayload:         p.MPPayload,
	}
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = FromPayment(p)
	}
	return out
}
