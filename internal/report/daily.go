// Package report renders the printable daily sales report and receipts.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
	"github.com/xenking/till/internal/domain/settings"
)

// ErrNoSales is returned when there is nothing to report for the day.
var ErrNoSales = errors.New("no sales to report")

const (
	banner     = "=============================================="
	nameWidth  = 20
	priceWidth = 9
	countWidth = 12
	totalWidth = 14
	ruleWidth  = 74
)

// Stock resolves the current stock of a product.
type Stock interface {
	Get(id int64) (product.Product, bool)
}

// Daily renders the end-of-day report for sales, which must all belong to
// the same day. Rows are grouped by product and ordered by units sold, most
// first; ties keep the order in which products were first sold.
func Daily(sales []ledger.Sale, stock Stock, s settings.Settings, now time.Time) (string, error) {
	if len(sales) == 0 {
		return "", ErrNoSales
	}

	agg := ledger.Aggregate(ledger.DayKey(now, now.Location()), sales)
	rows := slices.Clone(agg.Items)
	slices.SortStableFunc(rows, func(a, b ledger.ItemStat) int {
		return b.QuantitySold - a.QuantitySold
	})

	grand := decimal.Zero
	for _, sale := range sales {
		grand = grand.Add(sale.Total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily Sales Report - %s\n\n", s.StoreName)
	fmt.Fprintf(&b, "Today: %s\n", now.Format("1/2/2006"))
	fmt.Fprintf(&b, "Time: %s\n\n", now.Format("15:04:05"))
	b.WriteString(banner + "\n")
	b.WriteString("N.B: items arranged by sold from max to minimum\n")
	b.WriteString(banner + "\n\n")

	cur := len([]rune(s.Currency))
	fmt.Fprintf(&b, "%-*s %*s %*s %*s %*s\n",
		nameWidth, "item",
		cur+priceWidth, "price",
		countWidth, "out stock",
		countWidth, "in stock",
		cur+totalWidth, "total price",
	)
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s %s%*s %*d %*s %s%*s\n",
			nameWidth, truncate(row.Name, nameWidth),
			s.Currency, priceWidth, row.UnitPrice.StringFixed(2),
			countWidth, row.QuantitySold,
			countWidth, inStock(stock, row.ProductID),
			s.Currency, totalWidth, row.TotalRevenue.StringFixed(2),
		)
	}

	b.WriteString("\n\n" + banner + "\n")
	fmt.Fprintf(&b, "total out stock: %-10d from total items: %d\n", agg.Units(), len(rows))
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "total day price: %s\n", s.Money(grand))
	b.WriteString(banner + "\n")

	return b.String(), nil
}

func inStock(stock Stock, id int64) string {
	p, ok := stock.Get(id)
	switch {
	case !ok:
		return "0"
	case !p.Tracked():
		return "∞"
	default:
		return strconv.Itoa(*p.Stock)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
