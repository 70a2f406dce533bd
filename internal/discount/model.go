package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

// Code is the external rule record for a discount code. It is read-only to
// this service except for used_count, which the order-completion flow
// increments through RecordUsage.
type Code struct {
	Code              string
	Type              Type
	Value             decimal.Decimal
	MinOrderAmount    *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	UsedCount         int
	ExpiresAt         *time.Time
	Active            bool
}

// Applied is the accepted result of validation. Amount is never negative and
// never exceeds the order amount it was validated against.
type Applied struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
	Type   Type            `json:"type"`
}
