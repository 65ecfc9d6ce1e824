package pos

import (
	"context"

	"go.uber.org/zap"

	"github.com/xenking/till/internal/domain/checkout"
	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/report"
)

// Receipt is a completed sale and its printable receipt.
type Receipt struct {
	Sale ledger.Sale `json:"sale"`
	Text string      `json:"receipt"`
}

// Checkout completes the sale of the current cart. The new sale has to be
// exported again before the session can end.
func (t *Terminal) Checkout(ctx context.Context, p checkout.Payment) (Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sale, err := t.checkout.CompleteSale(t.cart, t.settings.TaxRate, p)
	if err != nil {
		return Receipt{}, err
	}
	t.meta.Exported = false
	t.metrics.recordSale(ctx, sale)
	t.lg.Info("Sale completed",
		zap.String("sale_id", sale.ID),
		zap.Stringer("total", sale.Total),
		zap.String("payment_method", sale.PaymentMethod),
		zap.Int("units", sale.Units()),
	)

	receipt := Receipt{Sale: sale, Text: report.Receipt(sale, t.settings)}
	if err := t.save(ctx); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// Sales returns the sales history, newest first.
func (t *Terminal) Sales() []ledger.Sale {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Recent()
}

// Receipt re-renders the receipt of a recorded sale.
func (t *Terminal) Receipt(saleID string) (Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sale, ok := t.ledger.Find(saleID)
	if !ok {
		return Receipt{}, ErrSaleNotFound
	}
	return Receipt{Sale: sale, Text: report.Receipt(sale, t.settings)}, nil
}

// Summary folds the whole ledger into revenue, count and average.
func (t *Terminal) Summary() ledger.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Summary()
}

// DailyAggregate returns per-product figures for the day identified by key.
// An empty key means today.
func (t *Terminal) DailyAggregate(day string) ledger.DailyAggregate {
	t.mu.Lock()
	defer t.mu.Unlock()

	if day == "" {
		day = t.today()
	}
	return ledger.Aggregate(day, t.ledger.OnDay(day, t.loc))
}

// Dashboard returns today's headline figures.
func (t *Terminal) Dashboard() report.DashboardStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	day := t.today()
	agg := ledger.Aggregate(day, t.ledger.OnDay(day, t.loc))
	return report.Dashboard(agg, t.catalog.Len())
}
