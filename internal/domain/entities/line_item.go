package entities

import "github.com/shopspring/decimal"

// LineItem is one product row of an order or estimate.
//
// Total is always computed server side from Quantity and Rate.
type LineItem struct {
	ProductCode string  `json:"product_code" dynamodbav:"product_code"`
	ProductName string  `json:"product_name" dynamodbav:"product_name"`
	Category    string  `json:"category" dynamodbav:"category"`
	Size        string  `json:"size" dynamodbav:"size"`
	Quantity    int     `json:"quantity" dynamodbav:"quantity"`
	Rate        float64 `json:"rate" dynamodbav:"rate"`
	Total       float64 `json:"total" dynamodbav:"total"`
}

func (li LineItem) lineTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(li.Quantity)).Mul(decimal.NewFromFloat(li.Rate)).Round(2)
}

// Totals is the money summary of a document.
type Totals struct {
	Total   float64
	Advance float64
	Balance float64
}

// PriceItems fills in every line total and returns the document totals.
// The input slice is not modified.
func PriceItems(items []LineItem, advance float64) ([]LineItem, Totals) {
	priced := make([]LineItem, len(items))
	sum := decimal.Zero
	for i, it := range items {
		lt := it.lineTotal()
		it.Total = lt.InexactFloat64()
		priced[i] = it
		sum = sum.Add(lt)
	}

	adv := decimal.NewFromFloat(advance).Round(2)
	return priced, Totals{
		Total:   sum.InexactFloat64(),
		Advance: adv.InexactFloat64(),
		Balance: sum.Sub(adv).InexactFloat64(),
	}
}

func validateItems(items []LineItem) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			return &ValidationError{Field: "items.quantity", Reason: "must be greater than zero"}
		}
		if it.Rate < 0 {
			return &ValidationError{Field: "items.rate", Reason: "must not be negative"}
		}
	}
	return nil
}
