package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
)

// Totals is the order total breakdown. All fields are rounded to currency
// precision; this is the presentation/persistence boundary, upstream
// arithmetic stays at full precision.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ShippingAmount decimal.Decimal `json:"shippingAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// Compose builds the order totals. Tax applies to the discounted subtotal;
// shipping is added untaxed. The discount can never push a total negative.
func Compose(subtotal decimal.Decimal, applied *discount.Applied, shippingAmount, taxRate decimal.Decimal) Totals {
	t := Totals{
		Subtotal:       subtotal.Round(2),
		ShippingAmount: shippingAmount.Round(2),
	}

	discountAmount := decimal.Zero
	if applied != nil {
		discountAmount = applied.Amount
		if discountAmount.GreaterThan(subtotal) {
			discountAmount = subtotal
		}
		t.DiscountCode = applied.Code
	}
	t.DiscountAmount = discountAmount.Round(2)

	taxable := subtotal.Sub(discountAmount)
	tax := taxable.Mul(taxRate)
	t.TaxAmount = tax.Round(2)

	t.TotalAmount = taxable.Add(tax).Add(shippingAmount).Round(2)
	return t
}
