package pos

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/till/internal/domain/cart"
	"github.com/xenking/till/internal/domain/checkout"
)

// CartView is the cart with totals at the current tax rate.
type CartView struct {
	Lines     []cart.Line     `json:"lines"`
	ItemCount int             `json:"itemCount"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

func (t *Terminal) cartView() CartView {
	totals := checkout.Quote(t.cart, t.settings.TaxRate)
	return CartView{
		Lines:     t.cart.Lines(),
		ItemCount: t.cart.ItemCount(),
		TaxRate:   t.settings.TaxRate,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
	}
}

// Cart returns the current cart.
func (t *Terminal) Cart() CartView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cartView()
}

// AddToCart adds qty units of a product. A qty below one adds a single unit.
func (t *Terminal) AddToCart(productID int64, qty int) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.cart.Add(productID, qty); err != nil {
		return t.cartView(), err
	}
	return t.cartView(), nil
}

// SetQuantity changes the quantity of a cart line; zero or less removes it.
func (t *Terminal) SetQuantity(productID int64, qty int) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.cart.SetQuantity(productID, qty); err != nil {
		return t.cartView(), err
	}
	return t.cartView(), nil
}

// RemoveFromCart drops a product from the cart.
func (t *Terminal) RemoveFromCart(productID int64) CartView {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cart.Remove(productID)
	return t.cartView()
}

// ClearCart empties a non-empty cart once confirmed.
func (t *Terminal) ClearCart(confirm bool) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cart.Empty() {
		return t.cartView(), nil
	}
	if !confirm {
		return t.cartView(), ErrConfirmationRequired
	}
	t.cart.Clear()
	return t.cartView(), nil
}
