package usecase

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
	ErrInvalidOrderID     = errors.New("invalid order id")
	ErrOrderConflict      = errors.New("order was modified concurrently")

	ErrEstimateNotFound      = errors.New("estimate not found")
	ErrEstimateAlreadyExists = errors.New("estimate already exists")
	ErrInvalidEstimateID     = errors.New("invalid estimate id")
	ErrEstimateNoItems       = errors.New("order has no items to estimate")

	ErrRecordNotFound      = errors.New("record not found")
	ErrRecordAlreadyExists = errors.New("record already exists")
	ErrInvalidRecordID     = errors.New("invalid record id")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// orderUpdateAttempts bounds how often UpdateOrder re-reads an order that
// changed underneath it.
const orderUpdateAttempts = 3

const (
	sequenceOrders    = "orders"
	sequenceEstimates = "estimates"
)
