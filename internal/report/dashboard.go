package report

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/till/internal/domain/ledger"
)

// DashboardStats are the headline figures shown for the current day.
type DashboardStats struct {
	Day          string            `json:"day"`
	Revenue      decimal.Decimal   `json:"revenue"`
	UnitsSold    int               `json:"unitsSold"`
	CatalogItems int               `json:"catalogItems"`
	Items        []ledger.ItemStat `json:"items"`
}

// Dashboard derives the stats from a day's aggregate. Revenue is the
// aggregate's day total, which excludes tax.
func Dashboard(agg ledger.DailyAggregate, catalogItems int) DashboardStats {
	items := agg.Items
	if items == nil {
		items = []ledger.ItemStat{}
	}
	return DashboardStats{
		Day:          agg.Day,
		Revenue:      agg.DayTotal,
		UnitsSold:    agg.Units(),
		CatalogItems: catalogItems,
		Items:        items,
	}
}
