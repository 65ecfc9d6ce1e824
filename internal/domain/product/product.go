package product

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// LowStockThreshold is the stock level below which a tracked product is
// reported as running low.
const LowStockThreshold = 20

// StockStatus classifies a product's remaining stock for inventory views.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusUnlimited  StockStatus = "unlimited"
)

// Product represents a sellable catalog item. A nil Stock means the product
// is not stock-tracked and can be sold in any quantity.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    *int            `json:"stock,omitempty"`
}

// Tracked reports whether the product has a stock level.
func (p Product) Tracked() bool {
	return p.Stock != nil
}

// Allows reports whether qty units can be taken from the current stock.
func (p Product) Allows(qty int) bool {
	if p.Stock == nil {
		return true
	}
	return qty <= *p.Stock
}

// Status returns the inventory badge for the product.
func (p Product) Status() StockStatus {
	switch {
	case p.Stock == nil:
		return StatusUnlimited
	case *p.Stock <= 0:
		return StatusOutOfStock
	case *p.Stock < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// clone returns a copy that shares no memory with p.
func (p Product) clone() Product {
	if p.Stock != nil {
		s := *p.Stock
		p.Stock = &s
	}
	return p
}

// Draft holds the editable fields of a product.
type Draft struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    *int            `json:"stock,omitempty"`
}

// ValidationError reports a missing or invalid field on a catalog edit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product %s: %s", e.Field, e.Reason)
}

// StockPtr is a helper for building tracked products.
func StockPtr(n int) *int {
	return &n
}
