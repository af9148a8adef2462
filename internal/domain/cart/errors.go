package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity    = fmt.Errorf("quantity must be between 1 and %d", maxLineQuantity)
	ErrUnknownItem        = errors.New("unknown catalog item")
	ErrSessionUnavailable = errors.New("session unavailable")
	ErrStoreUnavailable   = errors.New("cart store unavailable")
	ErrEmptyCart          = errors.New("cart is empty")

	// ErrSessionStoreUnavailable reports that the session exists but its
	// backing store could not be reached. It also matches ErrSessionUnavailable.
	ErrSessionStoreUnavailable = fmt.Errorf("%w: session store unreachable", ErrSessionUnavailable)
)
