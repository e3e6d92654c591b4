package ordering

import "errors"

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrItemNotFound = errors.New("item not found in cart")

	// ErrOrderClosed is returned by ConfirmOrder once the placement has
	// reached a terminal state.
	ErrOrderClosed = errors.New("order already finalized")
)

// ValidationError reports a rejected cart mutation (bad quantity, negative
// price). Checked with errors.As.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UnavailableItemError names the first cart item missing from the menu.
type UnavailableItemError struct {
	Name string
}

func (e *UnavailableItemError) Error() string { return e.Name + " is not available" }
