package pos

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/till/internal/domain/ledger"
)

type metrics struct {
	sales   metric.Int64Counter
	revenue metric.Float64Counter
	units   metric.Int64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	sales, err := meter.Int64Counter("till.sales",
		metric.WithDescription("Completed sales"),
	)
	if err != nil {
		return nil, err
	}
	revenue, err := meter.Float64Counter("till.revenue",
		metric.WithDescription("Revenue of completed sales including tax"),
	)
	if err != nil {
		return nil, err
	}
	units, err := meter.Int64Histogram("till.sale.units",
		metric.WithDescription("Units sold per sale"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50, 100),
	)
	if err != nil {
		return nil, err
	}
	return &metrics{sales: sales, revenue: revenue, units: units}, nil
}

func (m *metrics) recordSale(ctx context.Context, s ledger.Sale) {
	attrs := metric.WithAttributes(attribute.String("payment_method", s.PaymentMethod))
	m.sales.Add(ctx, 1, attrs)
	m.revenue.Add(ctx, s.Total.InexactFloat64(), attrs)
	m.units.Record(ctx, int64(s.Units()), attrs)
}
