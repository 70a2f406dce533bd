package discount

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// All validation failures are recoverable and user-facing; none are fatal to
// the session.
var (
	ErrNotFound     = errors.New("discount code not found")
	ErrInactive     = errors.New("discount code is not active")
	ErrExpired      = errors.New("discount code has expired")
	ErrLimitReached = errors.New("discount code usage limit reached")
	ErrLookupFailed = errors.New("discount lookup failed")
)

// BelowMinimumError carries the required minimum so the caller can render it.
type BelowMinimumError struct {
	Required decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum order amount of $%s required", e.Required.StringFixed(2))
}
