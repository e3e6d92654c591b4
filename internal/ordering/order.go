package ordering

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstimatedDelivery is attached to every confirmed order.
const EstimatedDelivery = 45 * time.Minute

// Order is an immutable snapshot of an amount owed, taken from a cart.
type Order struct {
	TotalAmount decimal.Decimal
}

// Confirmation carries the identifiers assigned on successful payment.
type Confirmation struct {
	OrderID           string
	EstimatedDelivery time.Duration
}
