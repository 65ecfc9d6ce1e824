package checkout

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/till/internal/domain/cart"
	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
)

// GuestCustomer is recorded when no customer name is given.
const GuestCustomer = "Guest"

// Payment methods accepted at checkout.
const (
	MethodCash   = "cash"
	MethodCard   = "card"
	MethodMobile = "mobile"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnsupportedPaymentMethod is returned for an unknown payment method.
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
)

// Stock is the catalog view checkout needs to take sold units out of stock.
type Stock interface {
	Get(id int64) (product.Product, bool)
	DecrementStock(id int64, qty int) error
}

// Recorder appends completed sales to the ledger.
type Recorder interface {
	Append(s ledger.Sale)
}

// Payment describes how the customer settles the sale.
type Payment struct {
	Method       string          `json:"paymentMethod"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	CustomerName string          `json:"customerName"`
}

// Service completes sales against a catalog and a ledger.
type Service struct {
	stock Stock
	sales Recorder
	now   func() time.Time
	newID func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used to timestamp sales.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a checkout Service.
func NewService(stock Stock, sales Recorder, opts ...Option) *Service {
	s := &Service{
		stock: stock,
		sales: sales,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Quote returns the totals due for the cart at the given tax rate.
func Quote(c *cart.Cart, taxRatePercent decimal.Decimal) Totals {
	return ComputeTotals(c.Subtotal(), taxRatePercent)
}

// CompleteSale validates the payment, takes the sold units out of stock,
// records an immutable sale and clears the cart.
//
// Stock is checked for every line before any is decremented. There is no
// rollback if recording fails after stock was taken.
func (s *Service) CompleteSale(c *cart.Cart, taxRatePercent decimal.Decimal, p Payment) (ledger.Sale, error) {
	if c.Empty() {
		return ledger.Sale{}, ErrEmptyCart
	}

	method := strings.ToLower(strings.TrimSpace(p.Method))
	if method == "" {
		method = MethodCash
	}
	if !supportedMethod(method) {
		return ledger.Sale{}, errors.Wrapf(ErrUnsupportedPaymentMethod, "method %q", p.Method)
	}

	totals := Quote(c, taxRatePercent)
	change, err := ValidatePayment(p.AmountPaid, totals.Total)
	if err != nil {
		return ledger.Sale{}, err
	}

	lines := c.Lines()
	for _, l := range lines {
		prod, ok := s.stock.Get(l.ProductID)
		if !ok {
			// Deleted after it was put in the cart; nothing to decrement.
			continue
		}
		if !prod.Allows(l.Quantity) {
			return ledger.Sale{}, cart.InsufficientStock(l.ProductID, l.Quantity, *prod.Stock)
		}
	}
	for _, l := range lines {
		if err := s.stock.DecrementStock(l.ProductID, l.Quantity); err != nil && !errors.Is(err, product.ErrNotFound) {
			return ledger.Sale{}, errors.Wrap(err, "decrement stock")
		}
	}

	customer := strings.TrimSpace(p.CustomerName)
	if customer == "" {
		customer = GuestCustomer
	}

	items := make([]ledger.LineItem, len(lines))
	for i, l := range lines {
		items[i] = ledger.LineItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		}
	}

	sale := ledger.Sale{
		ID:            s.newID(),
		Date:          s.now(),
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxRate:       taxRatePercent,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: method,
		AmountPaid:    p.AmountPaid,
		Change:        change,
		CustomerName:  customer,
	}
	s.sales.Append(sale)
	c.Clear()

	return sale, nil
}

func supportedMethod(m string) bool {
	switch m {
	case MethodCash, MethodCard, MethodMobile:
		return true
	default:
		return false
	}
}
