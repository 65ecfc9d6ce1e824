// Package settings holds the terminal-wide store configuration edited by the
// operator.
package settings

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

// ErrInvalid is returned when settings fail validation.
var ErrInvalid = errors.New("invalid settings")

// Settings is the store-level configuration. TaxRate is a percentage.
type Settings struct {
	StoreName string          `json:"storeName"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Currency  string          `json:"currency"`
}

// Default returns the settings a fresh terminal starts with.
func Default() Settings {
	return Settings{
		StoreName: "TexasPOS",
		TaxRate:   decimal.NewFromInt(10),
		Currency:  "$",
	}
}

// Validate checks the store name and that the tax rate lies in [0, 100].
func (s Settings) Validate() error {
	if strings.TrimSpace(s.StoreName) == "" {
		return errors.Wrap(ErrInvalid, "store name is required")
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(maxTaxRate) {
		return errors.Wrapf(ErrInvalid, "tax rate %s outside 0-100", s.TaxRate)
	}
	return nil
}

// Money formats an amount with the configured currency label.
func (s Settings) Money(d decimal.Decimal) string {
	return s.Currency + d.StringFixed(2)
}
