// Package cart holds the in-progress selection of products for one sale.
package cart

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/till/internal/domain/product"
)

var (
	// ErrOutOfStock is returned when a product cannot be added because it no
	// longer exists or its stock is exhausted.
	ErrOutOfStock = errors.New("product out of stock")
	// ErrInsufficientStock is returned when a requested quantity exceeds the
	// product's stock.
	ErrInsufficientStock = errors.New("not enough stock")
)

// StockError carries the product and quantities behind a stock failure. It
// unwraps to ErrOutOfStock or ErrInsufficientStock.
type StockError struct {
	ProductID int64
	Requested int
	Available int
	err       error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: product %d requested %d, available %d",
		e.err, e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return e.err
}

// InsufficientStock builds the error for a quantity that exceeds stock.
func InsufficientStock(productID int64, requested, available int) error {
	return &StockError{ProductID: productID, Requested: requested, Available: available, err: ErrInsufficientStock}
}

// Lookup resolves products against the current catalog.
type Lookup interface {
	Get(id int64) (product.Product, bool)
}

// Line is one product in the cart. Price is the unit price captured when the
// product was first added.
type Line struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Total returns Price × Quantity.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per product and a
// quantity of at least one on every line.
type Cart struct {
	catalog Lookup
	lines   []Line
}

// New creates an empty cart that checks stock against catalog.
func New(catalog Lookup) *Cart {
	return &Cart{catalog: catalog}
}

// Add puts qty more units of a product into the cart, creating the line on
// first add.
func (c *Cart) Add(productID int64, qty int) error {
	if qty <= 0 {
		qty = 1
	}
	p, ok := c.catalog.Get(productID)
	if !ok {
		return &StockError{ProductID: productID, Requested: qty, err: ErrOutOfStock}
	}

	i := c.index(productID)
	want := qty
	if i >= 0 {
		want += c.lines[i].Quantity
	}
	if !p.Allows(want) {
		return &StockError{ProductID: productID, Requested: want, Available: *p.Stock, err: ErrOutOfStock}
	}

	if i >= 0 {
		c.lines[i].Quantity = want
		return nil
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  want,
	})
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Setting a quantity on a product that is not in the
// cart does nothing.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	i := c.index(productID)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	p, ok := c.catalog.Get(productID)
	if !ok {
		return &StockError{ProductID: productID, Requested: qty, err: ErrOutOfStock}
	}
	if !p.Allows(qty) {
		return InsufficientStock(productID, qty, *p.Stock)
	}
	c.lines[i].Quantity = qty
	return nil
}

// Remove drops the line for a product if present.
func (c *Cart) Remove(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Subtotal returns the sum of line totals. It is recomputed on every call.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) index(productID int64) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
