package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
	"github.com/xenking/till/internal/domain/settings"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sp(n int) string {
	return strings.Repeat(" ", n)
}

var reportTime = time.Date(2025, 3, 5, 14, 30, 9, 0, time.UTC)

func sale(total string, items ...ledger.LineItem) ledger.Sale {
	return ledger.Sale{ID: "s", Date: reportTime, Items: items, Total: dec(total)}
}

func item(id int64, name, price string, qty int) ledger.LineItem {
	return ledger.LineItem{ProductID: id, Name: name, Price: dec(price), Quantity: qty}
}

func lineOf(t *testing.T, text, prefix string) int {
	t.Helper()
	for i, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, prefix) {
			return i
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, text)
	return -1
}

func TestDaily(t *testing.T) {
	catalog := product.NewCatalog([]product.Product{
		{ID: 1, Name: "Coffee", Price: dec("2.50"), Stock: product.StockPtr(7)},
		{ID: 2, Name: "Tea", Price: dec("1.75"), Stock: product.StockPtr(4)},
	})
	sales := []ledger.Sale{
		sale("10.18", item(1, "Coffee", "2.50", 3), item(2, "Tea", "1.75", 1)),
		sale("7.70", item(2, "Tea", "1.75", 4)),
	}

	out, err := Daily(sales, catalog, settings.Default(), reportTime)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Daily Sales Report - TexasPOS\n\n"))
	assert.Contains(t, out, "Today: 3/5/2025\n")
	assert.Contains(t, out, "Time: 14:30:09\n")
	assert.Contains(t, out, "N.B: items arranged by sold from max to minimum\n")
	assert.Contains(t, out, "\n"+strings.Repeat("-", 74)+"\n")

	tea := "Tea" + sp(17) + " $" + sp(5) + "1.75" + " " + sp(11) + "5" + " " + sp(11) + "4" + " $" + sp(10) + "8.75"
	coffee := "Coffee" + sp(14) + " $" + sp(5) + "2.50" + " " + sp(11) + "3" + " " + sp(11) + "7" + " $" + sp(10) + "7.50"
	assert.Contains(t, out, tea+"\n")
	assert.Contains(t, out, coffee+"\n")
	assert.Less(t, lineOf(t, out, "Tea "), lineOf(t, out, "Coffee "), "sorted by units sold")

	assert.Contains(t, out, "total out stock: 8"+sp(9)+" from total items: 2\n")
	assert.Contains(t, out, "total day price: $17.88\n")
}

func TestDaily_PriceChangeKeepsFirstSeenPrice(t *testing.T) {
	catalog := product.NewCatalog([]product.Product{
		{ID: 1, Name: "Coffee", Price: dec("3.00"), Stock: product.StockPtr(5)},
	})
	sales := []ledger.Sale{
		sale("5.50", item(1, "Coffee", "2.50", 2)),
		sale("3.30", item(1, "Coffee", "3.00", 1)),
	}

	out, err := Daily(sales, catalog, settings.Default(), reportTime)
	require.NoError(t, err)

	// 2.50 × 3 would be 7.50; the row adds the real line totals instead.
	coffee := "Coffee" + sp(14) + " $" + sp(5) + "2.50" + " " + sp(11) + "3" + " " + sp(11) + "5" + " $" + sp(10) + "8.00"
	assert.Contains(t, out, coffee+"\n")
	assert.NotContains(t, out, "7.50")
	assert.Contains(t, out, "total out stock: 3"+sp(9)+" from total items: 1\n")
	assert.Contains(t, out, "total day price: $8.80\n")
}

func TestDaily_NoSales(t *testing.T) {
	_, err := Daily(nil, product.NewCatalog(nil), settings.Default(), reportTime)
	require.ErrorIs(t, err, ErrNoSales)
}

func TestDaily_StockColumn(t *testing.T) {
	catalog := product.NewCatalog([]product.Product{
		{ID: 3, Name: "Bag", Price: dec("0.10")},
	})
	sales := []ledger.Sale{
		sale("1.00", item(3, "Bag", "0.10", 2), item(9, "Removed", "0.40", 1)),
	}

	out, err := Daily(sales, catalog, settings.Default(), reportTime)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	bag := lines[lineOf(t, out, "Bag ")]
	removed := lines[lineOf(t, out, "Removed ")]
	assert.Contains(t, bag, sp(11)+"∞ $")
	assert.Contains(t, removed, sp(11)+"0 $")
}

func TestDaily_TiesKeepFirstSeenOrder(t *testing.T) {
	sales := []ledger.Sale{
		sale("3", item(5, "Zeta", "1", 1), item(4, "Alpha", "1", 1), item(6, "Mid", "1", 1)),
	}

	out, err := Daily(sales, product.NewCatalog(nil), settings.Default(), reportTime)
	require.NoError(t, err)

	z, a, m := lineOf(t, out, "Zeta "), lineOf(t, out, "Alpha "), lineOf(t, out, "Mid ")
	assert.Less(t, z, a)
	assert.Less(t, a, m)
}

func TestDaily_TruncatesLongNames(t *testing.T) {
	sales := []ledger.Sale{sale("1", item(1, "Extraordinarily Long Product", "1", 1))}

	out, err := Daily(sales, product.NewCatalog(nil), settings.Default(), reportTime)
	require.NoError(t, err)

	assert.NotContains(t, out, "Extraordinarily Long Product")
	assert.Contains(t, out, "\nExtraordinarily Long $")
}

func TestReceipt(t *testing.T) {
	s := ledger.Sale{
		ID:            "abc-123",
		Date:          reportTime,
		Items:         []ledger.LineItem{item(1, "Coffee", "2.50", 3)},
		Subtotal:      dec("7.50"),
		TaxRate:       decimal.NewFromInt(10),
		Tax:           dec("0.75"),
		Total:         dec("8.25"),
		PaymentMethod: "cash",
		AmountPaid:    dec("10.00"),
		Change:        dec("1.75"),
		CustomerName:  "Guest",
	}

	out := Receipt(s, settings.Default())

	assert.Contains(t, out, "TexasPOS")
	assert.Contains(t, out, "2025-03-05 14:30:09")
	assert.Contains(t, out, "Transaction #abc-123")
	assert.Contains(t, out, "Coffee x3"+sp(25)+" $7.50\n")
	assert.Contains(t, out, "Tax (10%)")
	assert.Contains(t, out, "CASH\n")
	assert.Contains(t, out, " $1.75\n")
	assert.Contains(t, out, "Customer: Guest")

	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(l)), receiptWidth, "line %q", l)
	}
}

func TestReceipt_LegacySale(t *testing.T) {
	var s ledger.Sale
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 1741168800000,
		"date": "2025-03-05T14:30:09Z",
		"items": [{"id": 1, "name": "Coffee", "price": 2.5, "quantity": 3}],
		"subtotal": 7.5, "tax": 0.75, "total": 8.25,
		"paymentMethod": "card", "amountPaid": 8.25, "change": 0,
		"customerName": "Guest"
	}`), &s))

	out := Receipt(s, settings.Default())

	assert.Contains(t, out, "Transaction #1741168800000")
	assert.Contains(t, out, "Tax (10%)")
	assert.Contains(t, out, " $0.75\n")
}

func TestDashboard(t *testing.T) {
	agg := ledger.Aggregate("05Mar2025", []ledger.Sale{
		sale("0", item(1, "Coffee", "2.50", 3), item(2, "Tea", "1.75", 2)),
	})

	got := Dashboard(agg, 12)

	assert.Equal(t, "05Mar2025", got.Day)
	assert.True(t, dec("11.00").Equal(got.Revenue))
	assert.Equal(t, 5, got.UnitsSold)
	assert.Equal(t, 12, got.CatalogItems)
	assert.Len(t, got.Items, 2)

	empty := Dashboard(ledger.Aggregate("05Mar2025", nil), 0)
	assert.NotNil(t, empty.Items)
	assert.True(t, empty.Revenue.IsZero())
}
