package request

import "encoding/json"

// PaymentCreateRequest records an advance payment against an order.
//
// `mp_payload` is forwarded to Mercado Pago as-is (raw JSON) to support varying
// provider schemas.
type PaymentCreateRequest struct {
	Amount    float64         `json:"amount" binding:"required,gt=0"`
	Method    string          `json:"method"`
	MPPayload json.RawMessage `json:"mp_payload"`
}
