// Package checkout turns a cart into a completed sale.
package checkout

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ErrInsufficientPayment is returned when the amount tendered is below the
// sale total.
var ErrInsufficientPayment = errors.New("insufficient payment amount")

// Totals holds the amounts due for a cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies a percentage tax rate to subtotal. Amounts are kept
// exact; callers round only when formatting.
func ComputeTotals(subtotal, taxRatePercent decimal.Decimal) Totals {
	tax := subtotal.Mul(taxRatePercent).Div(hundred)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// ValidatePayment returns the change owed for amountPaid against total. The
// change is never negative.
func ValidatePayment(amountPaid, total decimal.Decimal) (decimal.Decimal, error) {
	if amountPaid.LessThan(total) {
		return decimal.Zero, errors.Wrapf(ErrInsufficientPayment, "paid %s of %s", amountPaid.StringFixed(2), total.StringFixed(2))
	}
	return amountPaid.Sub(total), nil
}
