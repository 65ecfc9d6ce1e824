package ledger

import (
	"github.com/shopspring/decimal"
)

// ItemStat accumulates one product's sales within a day.
//
// UnitPrice is the price seen on the first sale of the product that day.
// Later sales at a different price still add their true line totals to
// TotalRevenue, so TotalRevenue need not equal UnitPrice × QuantitySold.
type ItemStat struct {
	ProductID    int64           `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"price"`
	QuantitySold int             `json:"quantity"`
	TotalRevenue decimal.Decimal `json:"total"`
}

// DailyAggregate is a per-day running summary keyed by product.
type DailyAggregate struct {
	Day      string          `json:"day"`
	Items    []ItemStat      `json:"items"`
	DayTotal decimal.Decimal `json:"total"`
}

// Stat returns the bucket for a product.
func (a DailyAggregate) Stat(productID int64) (ItemStat, bool) {
	for _, it := range a.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return ItemStat{}, false
}

// Units returns the number of units sold across all buckets.
func (a DailyAggregate) Units() int {
	n := 0
	for _, it := range a.Items {
		n += it.QuantitySold
	}
	return n
}

// Aggregate folds sales into per-product buckets in first-encounter order.
// DayTotal is the sum of line totals and excludes tax.
func Aggregate(day string, sales []Sale) DailyAggregate {
	agg := DailyAggregate{Day: day, DayTotal: decimal.Zero}
	index := make(map[int64]int)
	for _, s := range sales {
		for _, it := range s.Items {
			line := it.Total()
			agg.DayTotal = agg.DayTotal.Add(line)

			i, ok := index[it.ProductID]
			if !ok {
				index[it.ProductID] = len(agg.Items)
				agg.Items = append(agg.Items, ItemStat{
					ProductID:    it.ProductID,
					Name:         it.Name,
					UnitPrice:    it.Price,
					QuantitySold: it.Quantity,
					TotalRevenue: line,
				})
				continue
			}
			agg.Items[i].QuantitySold += it.Quantity
			agg.Items[i].TotalRevenue = agg.Items[i].TotalRevenue.Add(line)
		}
	}
	return agg
}
