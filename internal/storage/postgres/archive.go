package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xenking/till/internal/domain/ledger"
)

const (
	archiveSaleSQL = `INSERT INTO sales_archive
		(id, sold_at, items, subtotal, tax_rate, tax, total, payment_method, amount_paid, change_due, customer_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`

	listArchivedSQL = `SELECT id, sold_at, items, subtotal, tax_rate, tax, total, payment_method, amount_paid, change_due, customer_name
		FROM sales_archive WHERE sold_at >= $1 AND sold_at < $2 ORDER BY sold_at`
)

// Archive copies sales into sales_archive in one transaction. Sales already
// archived are skipped.
func (s *Store) Archive(ctx context.Context, sales []ledger.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, sale := range sales {
		items, err := json.Marshal(sale.Items)
		if err != nil {
			return fmt.Errorf("marshaling items of sale %q: %w", sale.ID, err)
		}
		batch.Queue(archiveSaleSQL,
			sale.ID, sale.Date, string(items), sale.Subtotal, sale.TaxRate, sale.Tax, sale.Total,
			sale.PaymentMethod, sale.AmountPaid, sale.Change, sale.CustomerName,
		)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("archiving %d sales: %w", len(sales), err)
		}
		return nil
	})
}

// Archived returns archived sales sold in [from, to), oldest first.
func (s *Store) Archived(ctx context.Context, from, to time.Time) ([]ledger.Sale, error) {
	rows, err := s.pool.Query(ctx, listArchivedSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing archived sales: %w", err)
	}
	return pgx.CollectRows(rows, scanSale)
}

func scanSale(row pgx.CollectableRow) (ledger.Sale, error) {
	var (
		s     ledger.Sale
		items []byte
	)
	err := row.Scan(
		&s.ID, &s.Date, &items, &s.Subtotal, &s.TaxRate, &s.Tax, &s.Total,
		&s.PaymentMethod, &s.AmountPaid, &s.Change, &s.CustomerName,
	)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return s, fmt.Errorf("decoding items of sale %q: %w", s.ID, err)
	}
	return s, nil
}
