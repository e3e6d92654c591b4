package ordering

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate is applied to the item subtotal at checkout.
	TaxRate = decimal.NewFromFloat(0.10)

	// DefaultDeliveryFee is the flat fee charged per delivery.
	DefaultDeliveryFee = decimal.NewFromFloat(5.00)
)

// Item is a single priced line in a cart. Quantity is always >= 1 while the
// item is present; dropping to zero removes the line.
type Item struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Line is the read view of an item.
type Line struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Totals is the checkout breakdown. It is derived on every call, never stored.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// AddResult tells the caller whether AddItem inserted a new line or bumped an
// existing one.
type AddResult string

const (
	ItemAdded   AddResult = "added"
	ItemUpdated AddResult = "updated"
)

// Cart holds the lines of one in-flight order, in insertion order, keyed by
// item name. A cart belongs to exactly one shopper session; callers must not
// mutate it from multiple goroutines.
type Cart struct {
	items       []Item
	deliveryFee decimal.Decimal
	version     uint64
}

func NewCart() *Cart {
	return NewCartWithFee(DefaultDeliveryFee)
}

func NewCartWithFee(fee decimal.Decimal) *Cart {
	return &Cart{deliveryFee: fee}
}

// AddItem inserts a new line, or increases the quantity of the line with the
// same name. Quantity must be positive and the unit price non-negative.
func (c *Cart) AddItem(name string, unitPrice decimal.Decimal, quantity int) (AddResult, error) {
	if quantity < 1 {
		return "", &ValidationError{Reason: "quantity must be at least 1"}
	}
	if unitPrice.IsNegative() {
		return "", &ValidationError{Reason: "unit price must not be negative"}
	}
	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].Quantity += quantity
			c.version++
			return ItemUpdated, nil
		}
	}
	c.items = append(c.items, Item{Name: name, UnitPrice: unitPrice, Quantity: quantity})
	c.version++
	return ItemAdded, nil
}

// RemoveItem deletes the named line. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(name string) {
	for i := range c.items {
		if c.items[i].Name == name {
			c.items = slices.Delete(c.items, i, i+1)
			c.version++
			return
		}
	}
}

// UpdateQuantity sets the quantity of an existing line. Zero removes the
// line; an absent name is ErrItemNotFound.
func (c *Cart) UpdateQuantity(name string, quantity int) error {
	if quantity < 0 {
		return &ValidationError{Reason: "quantity must not be negative"}
	}
	for i := range c.items {
		if c.items[i].Name == name {
			c.version++
			if quantity == 0 {
				c.items = slices.Delete(c.items, i, i+1)
				return nil
			}
			c.items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

// View returns a snapshot of the cart lines in insertion order. The sequence
// is computed lazily and can be ranged over any number of times; mutations
// after the call do not affect it.
func (c *Cart) View() iter.Seq[Line] {
	items := slices.Clone(c.items)
	return func(yield func(Line) bool) {
		for _, it := range items {
			if !yield(Line{Name: it.Name, Quantity: it.Quantity, Subtotal: it.Subtotal()}) {
				return
			}
		}
	}
}

// Lines collects View into a slice.
func (c *Cart) Lines() []Line {
	return slices.Collect(c.View())
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// CalculateTotal derives the checkout breakdown. Pure: same cart, same result.
func (c *Cart) CalculateTotal() Totals {
	sub := c.Subtotal()
	tax := sub.Mul(TaxRate)
	return Totals{
		Subtotal:    sub,
		Tax:         tax,
		DeliveryFee: c.deliveryFee,
		Total:       sub.Add(tax).Add(c.deliveryFee),
	}
}

func (c *Cart) Clear() {
	c.items = nil
	c.version++
}
