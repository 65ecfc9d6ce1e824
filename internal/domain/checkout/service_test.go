package checkout

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/till/internal/domain/cart"
	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
)

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	catalog *product.Catalog
	ledger  *ledger.Ledger
	cart    *cart.Cart
	svc     *Service
	now     time.Time
}

func newFixture(t *testing.T, products ...product.Product) *fixture {
	t.Helper()
	f := &fixture{
		catalog: product.NewCatalog(products),
		ledger:  ledger.New(nil),
		now:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	f.cart = cart.New(f.catalog)
	f.svc = NewService(f.catalog, f.ledger)
	f.svc.now = func() time.Time { return f.now }
	f.svc.newID = func() string { return "sale-1" }
	return f
}

func coffee() product.Product {
	return product.Product{ID: 1, Name: "Coffee", Category: "Drinks", Price: dec("2.50"), Stock: product.StockPtr(10)}
}

// --- Tests ---

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  string
		rate      string
		wantTax   string
		wantTotal string
	}{
		{name: "ten percent", subtotal: "7.50", rate: "10", wantTax: "0.75", wantTotal: "8.25"},
		{name: "zero rate", subtotal: "12000", rate: "0", wantTax: "0", wantTotal: "12000"},
		{name: "keeps sub-cent tax", subtotal: "1.05", rate: "5", wantTax: "0.0525", wantTotal: "1.1025"},
		{name: "fractional rate", subtotal: "100", rate: "8.25", wantTax: "8.25", wantTotal: "108.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(dec(tt.subtotal), dec(tt.rate))
			assert.True(t, dec(tt.subtotal).Equal(got.Subtotal))
			assert.True(t, dec(tt.wantTax).Equal(got.Tax), "tax %s", got.Tax)
			assert.True(t, dec(tt.wantTotal).Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestValidatePayment(t *testing.T) {
	change, err := ValidatePayment(dec("10.00"), dec("8.25"))
	require.NoError(t, err)
	assert.True(t, dec("1.75").Equal(change))

	change, err = ValidatePayment(dec("8.25"), dec("8.25"))
	require.NoError(t, err)
	assert.True(t, change.IsZero())

	_, err = ValidatePayment(dec("8.24"), dec("8.25"))
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// 1.10 displays as the total but is short of the exact 1.1025.
	totals := ComputeTotals(dec("1.05"), dec("5"))
	_, err = ValidatePayment(dec("1.10"), totals.Total)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	change, err = ValidatePayment(dec("1.11"), totals.Total)
	require.NoError(t, err)
	assert.True(t, dec("0.0075").Equal(change), "change %s", change)
}

func TestCompleteSale_CoffeeScenario(t *testing.T) {
	f := newFixture(t, coffee())
	for range 3 {
		require.NoError(t, f.cart.Add(1, 1))
	}
	assert.True(t, dec("7.50").Equal(f.cart.Subtotal()))

	sale, err := f.svc.CompleteSale(f.cart, dec("10"), Payment{
		Method:     MethodCash,
		AmountPaid: dec("10.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "sale-1", sale.ID)
	assert.Equal(t, f.now, sale.Date)
	assert.True(t, dec("7.50").Equal(sale.Subtotal))
	assert.True(t, dec("0.75").Equal(sale.Tax))
	assert.True(t, dec("8.25").Equal(sale.Total))
	assert.True(t, dec("1.75").Equal(sale.Change))
	assert.True(t, dec("10").Equal(sale.TaxRate))
	assert.Equal(t, GuestCustomer, sale.CustomerName)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 3, sale.Items[0].Quantity)

	p, _ := f.catalog.Get(1)
	assert.Equal(t, 7, *p.Stock)
	assert.True(t, f.cart.Empty())
	assert.Equal(t, 1, f.ledger.Len())
}

func TestCompleteSale_EmptyCart(t *testing.T) {
	f := newFixture(t, coffee())

	_, err := f.svc.CompleteSale(f.cart, dec("10"), Payment{AmountPaid: dec("100")})

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, f.ledger.Len())
}

func TestCompleteSale_InsufficientPayment(t *testing.T) {
	f := newFixture(t, coffee())
	require.NoError(t, f.cart.Add(1, 3))

	_, err := f.svc.CompleteSale(f.cart, dec("10"), Payment{AmountPaid: dec("8.24")})

	require.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, 0, f.ledger.Len())
	assert.Equal(t, 1, f.cart.Len(), "cart kept for retry")
	p, _ := f.catalog.Get(1)
	assert.Equal(t, 10, *p.Stock)
}

func TestCompleteSale_UnsupportedMethod(t *testing.T) {
	f := newFixture(t, coffee())
	require.NoError(t, f.cart.Add(1, 1))

	_, err := f.svc.CompleteSale(f.cart, dec("0"), Payment{Method: "barter", AmountPaid: dec("5")})

	require.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
}

func TestCompleteSale_NormalizesMethodAndCustomer(t *testing.T) {
	f := newFixture(t, coffee())
	require.NoError(t, f.cart.Add(1, 1))

	sale, err := f.svc.CompleteSale(f.cart, dec("0"), Payment{
		Method:       " CARD ",
		AmountPaid:   dec("2.50"),
		CustomerName: "  Rita ",
	})

	require.NoError(t, err)
	assert.Equal(t, MethodCard, sale.PaymentMethod)
	assert.Equal(t, "Rita", sale.CustomerName)
}

func TestCompleteSale_StockChangedAfterAdd(t *testing.T) {
	f := newFixture(t, coffee())
	require.NoError(t, f.cart.Add(1, 5))
	_, err := f.catalog.Update(1, product.Draft{Name: "Coffee", Price: dec("2.50"), Stock: product.StockPtr(2)})
	require.NoError(t, err)

	_, err = f.svc.CompleteSale(f.cart, dec("0"), Payment{AmountPaid: dec("100")})

	require.ErrorIs(t, err, cart.ErrInsufficientStock)
	assert.Equal(t, 0, f.ledger.Len())
	p, _ := f.catalog.Get(1)
	assert.Equal(t, 2, *p.Stock)
}

func TestCompleteSale_DeletedProductStillSold(t *testing.T) {
	f := newFixture(t, coffee())
	require.NoError(t, f.cart.Add(1, 2))
	require.NoError(t, f.catalog.Delete(1))

	sale, err := f.svc.CompleteSale(f.cart, dec("0"), Payment{AmountPaid: dec("5")})

	require.NoError(t, err)
	assert.True(t, dec("5.00").Equal(sale.Total))
	assert.True(t, sale.Change.IsZero())
}
