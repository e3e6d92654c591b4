// Package payment validates payment methods and translates gateway responses
// into domain outcomes. Every failure on this path, validation, method or
// gateway, comes back as a Result value; nothing here panics or leaks raw
// gateway faults to callers.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
)

const (
	MethodCreditCard = "credit_card"
	MethodPayPal     = "paypal"
)

// Exact outcome strings shoppers see.
const (
	MsgPaymentSuccessful = "Payment successful, Order confirmed"
	MsgPaymentDeclined   = "Payment failed, please try again"
)

// CardDetails carries the method-specific fields. Non-card methods leave
// them empty.
type CardDetails struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// MethodError reports an unsupported method or malformed details, detected
// before any gateway call.
type MethodError struct {
	Reason string
}

func (e *MethodError) Error() string { return e.Reason }

// Result is the uniform outcome of ProcessPayment. Callers branch on OK and
// display Message; they never have to distinguish fault categories by type.
type Result struct {
	OK            bool
	Message       string
	TransactionID string
}

// Processor validates payment methods against a configured set and delegates
// charging to a Gateway.
type Processor struct {
	gateway Gateway
	methods map[string]bool
}

// NewProcessor configures the supported methods; with none given it accepts
// credit_card and paypal.
func NewProcessor(gw Gateway, methods ...string) *Processor {
	if len(methods) == 0 {
		methods = []string{MethodCreditCard, MethodPayPal}
	}
	set := make(map[string]bool, len(methods))
	for _, m := range methods {
		set[m] = true
	}
	return &Processor{gateway: gw, methods: set}
}

// ValidatePaymentMethod rejects unknown methods, and for credit cards,
// malformed details.
func (p *Processor) ValidatePaymentMethod(method string, details CardDetails) error {
	if !p.methods[method] {
		return &MethodError{Reason: "invalid payment method"}
	}
	if method == MethodCreditCard && !ValidateCreditCard(details) {
		return &MethodError{Reason: "invalid credit card details"}
	}
	return nil
}

// ValidateCreditCard checks lengths only: 16-character number, 3-character
// CVV. No Luhn or expiry parsing; the gap is deliberate and callers depend
// on the lenient behavior.
func ValidateCreditCard(details CardDetails) bool {
	return len(details.CardNumber) == 16 && len(details.CVV) == 3
}

// ProcessPayment runs validate -> charge -> translate. Validation failures
// and gateway faults become "Error: <reason>" results without reaching (or
// blaming) the gateway; a gateway decline is a normal outcome, not an error.
func (p *Processor) ProcessPayment(ctx context.Context, order ordering.Order, method string, details CardDetails) Result {
	if err := p.ValidatePaymentMethod(method, details); err != nil {
		return Result{Message: "Error: " + err.Error()}
	}

	resp, err := p.gateway.Charge(ctx, method, details, order.TotalAmount)
	if err != nil {
		return Result{Message: "Error: " + err.Error()}
	}

	if resp.Status == GatewayStatusSuccess {
		return Result{OK: true, Message: MsgPaymentSuccessful, TransactionID: resp.TransactionID}
	}
	return Result{Message: MsgPaymentDeclined}
}

// Payer adapts a processor plus a chosen method to the confirm step of an
// order placement.
type Payer struct {
	Processor *Processor
	Method    string
	Details   CardDetails
}

func (p Payer) Pay(ctx context.Context, amount decimal.Decimal) error {
	res := p.Processor.ProcessPayment(ctx, ordering.Order{TotalAmount: amount}, p.Method, p.Details)
	if !res.OK {
		return errors.New(res.Message)
	}
	return nil
}
