package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Lookup fetches the rule record for a canonicalized code. Implementations
// return ErrNotFound for unknown codes; any other error is treated as a
// transient lookup failure.
type Lookup interface {
	FindByCode(ctx context.Context, code string) (Code, error)
}

// Canonicalize normalizes user input to the stored code form.
func Canonicalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validator checks a code against its business constraints and computes the
// discount amount for a given order total. It never mutates used_count;
// incrementing usage belongs to the order-placement flow.
type Validator struct {
	lookup Lookup
	now    func() time.Time
}

func NewValidator(lookup Lookup) *Validator {
	return &Validator{lookup: lookup, now: time.Now}
}

// Validate runs the rule checks in fixed order, each a distinct failure mode,
// and returns the applied discount on success.
func (v *Validator) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (Applied, error) {
	canonical := Canonicalize(code)

	rec, err := v.lookup.FindByCode(ctx, canonical)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Applied{}, ErrNotFound
		}
		return Applied{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	if !rec.Active {
		return Applied{}, ErrInactive
	}
	if rec.ExpiresAt != nil && rec.ExpiresAt.Before(v.now()) {
		return Applied{}, ErrExpired
	}
	if rec.UsageLimit != nil && rec.UsedCount >= *rec.UsageLimit {
		return Applied{}, ErrLimitReached
	}
	if rec.MinOrderAmount != nil && orderAmount.LessThan(*rec.MinOrderAmount) {
		return Applied{}, &BelowMinimumError{Required: *rec.MinOrderAmount}
	}

	var amount decimal.Decimal
	switch rec.Type {
	case TypePercentage:
		amount = orderAmount.Mul(rec.Value).Div(decimal.NewFromInt(100))
		if rec.MaxDiscountAmount != nil && amount.GreaterThan(*rec.MaxDiscountAmount) {
			amount = *rec.MaxDiscountAmount
		}
	case TypeFixed:
		amount = rec.Value
	default:
		return Applied{}, fmt.Errorf("%w: unknown type %q", ErrLookupFailed, rec.Type)
	}

	// A discount may never exceed the order total or go negative.
	if amount.GreaterThan(orderAmount) {
		amount = orderAmount
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return Applied{Code: rec.Code, Amount: amount, Type: rec.Type}, nil
}
