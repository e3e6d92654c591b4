package ordering

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payer charges the given amount and returns nil on success. A non-nil error
// is the failure reason, surfaced to the shopper as-is.
type Payer interface {
	Pay(ctx context.Context, amount decimal.Decimal) error
}

// CheckoutSummary pairs the cart view with its breakdown and the delivery
// destination.
type CheckoutSummary struct {
	Items           []Line `json:"items"`
	Totals          Totals `json:"totals"`
	DeliveryAddress string `json:"delivery_address"`
}

// OrderPlacement drives one cart through validation, checkout and payment.
// Lifecycle: EMPTY -> PENDING -> VALIDATED -> AWAITING_PAYMENT -> CONFIRMED
// or FAILED. It owns the cart exclusively.
type OrderPlacement struct {
	cart    *Cart
	profile UserProfile
	menu    Menu

	status           Status
	validatedVersion uint64
}

func NewOrderPlacement(cart *Cart, profile UserProfile, menu Menu) *OrderPlacement {
	return &OrderPlacement{cart: cart, profile: profile, menu: menu, status: StatusEmpty}
}

func (p *OrderPlacement) Cart() *Cart { return p.cart }

// Status derives the current lifecycle state. A successful validation only
// counts while the cart has not been mutated since.
func (p *OrderPlacement) Status() Status {
	if p.status.Terminal() || p.status == StatusAwaitingPayment {
		return p.status
	}
	if p.cart.Len() == 0 {
		return StatusEmpty
	}
	if p.status == StatusValidated && p.validatedVersion == p.cart.version {
		return StatusValidated
	}
	return StatusPending
}

// transition moves the placement along the lifecycle table. A move the
// table forbids is a bug in this package, not caller input.
func (p *OrderPlacement) transition(to Status) {
	from := p.Status()
	if from == to {
		return
	}
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("ordering: invalid transition %s -> %s", from, to))
	}
	p.status = to
}

// ValidateOrder checks that the cart is non-empty and every line is on the
// menu. The first unavailable item fails the whole order. A finalized
// placement stays finalized; it cannot be re-validated.
func (p *OrderPlacement) ValidateOrder() error {
	if p.status.Terminal() {
		return ErrOrderClosed
	}
	if p.cart.Len() == 0 {
		return ErrEmptyCart
	}
	for line := range p.cart.View() {
		if !p.menu.IsItemAvailable(line.Name) {
			return &UnavailableItemError{Name: line.Name}
		}
	}
	p.transition(StatusValidated)
	p.validatedVersion = p.cart.version
	return nil
}

// ProceedToCheckout assembles the order preview. Pure; callable any number
// of times.
func (p *OrderPlacement) ProceedToCheckout() CheckoutSummary {
	return CheckoutSummary{
		Items:           p.cart.Lines(),
		Totals:          p.cart.CalculateTotal(),
		DeliveryAddress: p.profile.DeliveryAddress,
	}
}

// ConfirmOrder re-validates, charges the exact checkout total and finalizes
// the placement. A validation failure returns before any payment attempt and
// leaves the state untouched, so the caller can fix the cart and retry. A
// payment failure is terminal. On success the cart is cleared; the session
// starts over for the next order.
func (p *OrderPlacement) ConfirmOrder(ctx context.Context, payer Payer) (Confirmation, error) {
	if p.status.Terminal() {
		return Confirmation{}, ErrOrderClosed
	}
	if err := p.ValidateOrder(); err != nil {
		return Confirmation{}, err
	}
	total := p.cart.CalculateTotal().Total

	p.transition(StatusAwaitingPayment)
	if err := payer.Pay(ctx, total); err != nil {
		p.transition(StatusFailed)
		return Confirmation{}, err
	}

	p.transition(StatusConfirmed)
	p.cart.Clear()
	return Confirmation{
		OrderID:           uuid.NewString(),
		EstimatedDelivery: EstimatedDelivery,
	}, nil
}

// CreateOrder snapshots the cart total into an Order, independent of the
// validate/confirm pipeline. No menu check. Returns nil when nothing has
// been added yet.
func (p *OrderPlacement) CreateOrder() *Order {
	if p.cart.Subtotal().IsZero() {
		return nil
	}
	return &Order{TotalAmount: p.cart.CalculateTotal().Total}
}
