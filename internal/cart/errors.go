package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrStockExceeded is returned when the requested quantity is above the
	// product's remote stock. The cart is unchanged.
	ErrStockExceeded = errors.New("stock exceeded")

	// ErrNotFound is returned by RemoveProduct for a product not in the cart.
	ErrNotFound = errors.New("product not in cart")

	// ErrPersistence is returned when the new snapshot could not be written.
	// The cart is unchanged.
	ErrPersistence = errors.New("persisting cart")
)

// TransportError wraps a failed remote lookup. The cause is kept for
// callers and logs but is never shown to the user.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
