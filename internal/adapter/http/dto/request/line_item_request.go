package request

import (
	"strings"

	"bizdesk/internal/domain/entities"
)

// LineItemRequest is one product row. Line totals are always computed server
// side, so a client-sent total is ignored.
type LineItemRequest struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity" binding:"gt=0"`
	Rate        float64 `json:"rate" binding:"gte=0"`
}

func (r LineItemRequest) ToEntity() entities.LineItem {
	return entities.LineItem{
		ProductCode: strings.TrimSpace(r.ProductCode),
		ProductName: strings.TrimSpace(r.ProductName),
		Category:    strings.TrimSpace(r.Category),
		Size:        strings.TrimSpace(r.Size),
		Quantity:    r.Quantity,
		Rate:        r.Rate,
	}
}

// toLineItems keeps nil as nil so "not sent" and "sent empty" stay distinct.
func toLineItems(items []LineItemRequest) []entities.LineItem {
	if items == nil {
		return nil
	}
	out := make([]entities.LineItem, len(items))
	for i, it := range items {
		out[i] = it.ToEntity()
	}
	return out
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
