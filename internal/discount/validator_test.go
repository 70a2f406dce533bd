package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeLookup struct {
	codes     map[string]Code
	lookupErr error
	lastCode  string
}

func (f *fakeLookup) FindByCode(ctx context.Context, code string) (Code, error) {
	f.lastCode = code
	if f.lookupErr != nil {
		return Code{}, f.lookupErr
	}
	rec, ok := f.codes[code]
	if !ok {
		return Code{}, ErrNotFound
	}
	return rec, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

var validationTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestValidator(codes map[string]Code) (*Validator, *fakeLookup) {
	lookup := &fakeLookup{codes: codes}
	v := NewValidator(lookup)
	v.now = func() time.Time { return validationTime }
	return v, lookup
}

func save20() Code {
	return Code{
		Code:              "SAVE20",
		Type:              TypePercentage,
		Value:             dec("20"),
		MinOrderAmount:    decPtr("50"),
		MaxDiscountAmount: decPtr("15"),
		Active:            true,
	}
}

func TestValidateFailureModes(t *testing.T) {
	tests := map[string]struct {
		record      Code
		orderAmount string
		wantErr     error
	}{
		"inactive": {
			record:      Code{Code: "OFF", Type: TypeFixed, Value: dec("5")},
			orderAmount: "100",
			wantErr:     ErrInactive,
		},
		"expired strictly before now": {
			record: Code{
				Code: "OFF", Type: TypeFixed, Value: dec("5"), Active: true,
				ExpiresAt: timePtr(validationTime.Add(-time.Second)),
			},
			orderAmount: "100",
			wantErr:     ErrExpired,
		},
		"usage limit reached": {
			record: Code{
				Code: "OFF", Type: TypeFixed, Value: dec("5"), Active: true,
				UsageLimit: intPtr(10), UsedCount: 10,
			},
			orderAmount: "100",
			wantErr:     ErrLimitReached,
		},
		"usage above limit": {
			record: Code{
				Code: "OFF", Type: TypeFixed, Value: dec("5"), Active: true,
				UsageLimit: intPtr(10), UsedCount: 11,
			},
			orderAmount: "100",
			wantErr:     ErrLimitReached,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, _ := newTestValidator(map[string]Code{"OFF": tt.record})

			_, err := v.Validate(context.Background(), "OFF", dec(tt.orderAmount))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNotFound(t *testing.T) {
	v, _ := newTestValidator(nil)

	_, err := v.Validate(context.Background(), "NOPE", dec("100"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestValidateCanonicalizesCode(t *testing.T) {
	v, lookup := newTestValidator(map[string]Code{"SAVE20": save20()})

	applied, err := v.Validate(context.Background(), "  save20 ", dec("100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.lastCode != "SAVE20" {
		t.Fatalf("looked up %q, want SAVE20", lookup.lastCode)
	}
	if applied.Code != "SAVE20" {
		t.Fatalf("applied code %q, want SAVE20", applied.Code)
	}
}

func TestValidateNotYetExpired(t *testing.T) {
	rec := save20()
	rec.ExpiresAt = timePtr(validationTime.Add(time.Hour))
	v, _ := newTestValidator(map[string]Code{"SAVE20": rec})

	if _, err := v.Validate(context.Background(), "SAVE20", dec("100")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBelowMinimumCarriesRequired(t *testing.T) {
	v, _ := newTestValidator(map[string]Code{"SAVE20": save20()})

	_, err := v.Validate(context.Background(), "SAVE20", dec("40"))

	var belowMin *BelowMinimumError
	if !errors.As(err, &belowMin) {
		t.Fatalf("got %v, want BelowMinimumError", err)
	}
	if !belowMin.Required.Equal(dec("50")) {
		t.Fatalf("required = %s, want 50", belowMin.Required)
	}
}

func TestValidateAmounts(t *testing.T) {
	tests := map[string]struct {
		record      Code
		orderAmount string
		wantAmount  string
	}{
		"percentage capped by max discount": {
			record:      save20(),
			orderAmount: "100",
			wantAmount:  "15",
		},
		"percentage without cap": {
			record: Code{
				Code: "TEN", Type: TypePercentage, Value: dec("10"), Active: true,
			},
			orderAmount: "59.90",
			wantAmount:  "5.99",
		},
		"percentage under the cap stays exact": {
			record:      save20(),
			orderAmount: "60",
			wantAmount:  "12",
		},
		"fixed clamped to order amount": {
			record: Code{
				Code: "FIFTY", Type: TypeFixed, Value: dec("50"), Active: true,
			},
			orderAmount: "30",
			wantAmount:  "30",
		},
		"fixed below order amount": {
			record: Code{
				Code: "FIVE", Type: TypeFixed, Value: dec("5"), Active: true,
			},
			orderAmount: "30",
			wantAmount:  "5",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, _ := newTestValidator(map[string]Code{tt.record.Code: tt.record})

			applied, err := v.Validate(context.Background(), tt.record.Code, dec(tt.orderAmount))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !applied.Amount.Equal(dec(tt.wantAmount)) {
				t.Fatalf("amount = %s, want %s", applied.Amount, tt.wantAmount)
			}
			if applied.Type != tt.record.Type {
				t.Fatalf("type = %s, want %s", applied.Type, tt.record.Type)
			}
		})
	}
}

func TestValidateLookupFailureIsTransient(t *testing.T) {
	v, lookup := newTestValidator(nil)
	lookup.lookupErr = errors.New("connection refused")

	_, err := v.Validate(context.Background(), "SAVE20", dec("100"))
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("got %v, want ErrLookupFailed", err)
	}
}
