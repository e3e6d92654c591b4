package ordering

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderFailed    = "OrderFailed"
)

// Envelope wraps every event on the wire. Payload holds the event-specific
// body, decoded separately by consumers.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id, or cart id for failures
	Payload       json.RawMessage `json:"payload"`
}

type OrderConfirmedPayload struct {
	OrderID              string          `json:"order_id"`
	UserID               string          `json:"user_id"`
	DeliveryAddress      string          `json:"delivery_address"`
	Items                []Line          `json:"items"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	EstimatedDeliveryMin int             `json:"estimated_delivery_min"`
}

type OrderFailedPayload struct {
	CartID string `json:"cart_id"`
	UserID string `json:"user_id"`
	Reason string `json:"reason"` // verbatim from validation or the payment layer
}
