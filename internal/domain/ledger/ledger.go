// Package ledger records completed sales and derives summaries from them.
//
// The append-only transaction log is the source of truth. Per-day aggregates
// are computed from the log on demand, so individual transactions can always
// be reconstructed.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a snapshot of one cart line at checkout time.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Total returns Price × Quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is an immutable record of a completed checkout.
type Sale struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Change        decimal.Decimal `json:"change"`
	CustomerName  string          `json:"customerName"`
}

// Units returns the number of units sold in the sale.
func (s Sale) Units() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (s Sale) clone() Sale {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// Summary holds figures derived by folding the log.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TransactionCount int             `json:"transactionCount"`
	AverageSaleValue decimal.Decimal `json:"averageSaleValue"`
}

// Ledger is the append-only log of sales. It is not safe for concurrent use.
type Ledger struct {
	sales []Sale
}

// New creates a ledger holding copies of the given sales in order.
func New(sales []Sale) *Ledger {
	l := &Ledger{sales: make([]Sale, 0, len(sales))}
	for _, s := range sales {
		l.sales = append(l.sales, s.clone())
	}
	return l
}

// Append adds a sale to the end of the log.
func (l *Ledger) Append(s Sale) {
	l.sales = append(l.sales, s.clone())
}

// Len returns the number of recorded sales.
func (l *Ledger) Len() int {
	return len(l.sales)
}

// Sales returns a copy of the log in recording order.
func (l *Ledger) Sales() []Sale {
	out := make([]Sale, len(l.sales))
	for i, s := range l.sales {
		out[i] = s.clone()
	}
	return out
}

// Recent returns a copy of the log, newest first.
func (l *Ledger) Recent() []Sale {
	out := make([]Sale, len(l.sales))
	for i, s := range l.sales {
		out[len(l.sales)-1-i] = s.clone()
	}
	return out
}

// Find returns the sale with the given id.
func (l *Ledger) Find(id string) (Sale, bool) {
	for _, s := range l.sales {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return Sale{}, false
}

// OnDay returns the sales whose timestamp falls on the day identified by key
// in loc.
func (l *Ledger) OnDay(key string, loc *time.Location) []Sale {
	var out []Sale
	for _, s := range l.sales {
		if DayKey(s.Date, loc) == key {
			out = append(out, s.clone())
		}
	}
	return out
}

// Clear drops every sale.
func (l *Ledger) Clear() {
	l.sales = nil
}

// Summary folds the log into revenue, count and average.
func (l *Ledger) Summary() Summary {
	return Summarize(l.sales)
}

// Summarize folds sales into revenue, count and average sale value. The
// average is zero for an empty slice.
func Summarize(sales []Sale) Summary {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}
	avg := decimal.Zero
	if len(sales) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(sales))))
	}
	return Summary{
		TotalRevenue:     total,
		TransactionCount: len(sales),
		AverageSaleValue: avg,
	}
}

// DayKey returns the grouping key for the calendar day of t in loc, e.g.
// "05Mar2025". Keys are opaque: they are unique per day but do not sort
// chronologically.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("02Jan2006")
}
