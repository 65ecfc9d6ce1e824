package pos

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/till/internal/backup"
	"github.com/xenking/till/internal/domain/settings"
	"github.com/xenking/till/internal/report"
	"github.com/xenking/till/internal/storage"
)

// Export is a file produced by the terminal.
type Export struct {
	Name string
	Data []byte
}

// Settings returns the store settings.
func (t *Terminal) Settings() settings.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// SaveSettings validates and stores new settings.
func (t *Terminal) SaveSettings(ctx context.Context, s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.settings = s
	return t.save(ctx)
}

// ExportBackup produces a backup of catalog, sales and settings and marks
// the sales as exported.
func (t *Terminal) ExportBackup(ctx context.Context, passphrase string, compressed bool) (Export, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out Export
	err := t.privileged("export backup", passphrase, func() error {
		now := t.clock()
		s := t.settings
		doc := backup.Document{
			Products:   t.catalog.List(),
			Sales:      t.ledger.Sales(),
			Settings:   &s,
			ExportDate: now,
		}
		encode := backup.Encode
		if compressed {
			encode = backup.EncodeGzip
		}
		data, err := encode(doc)
		if err != nil {
			return err
		}
		out = Export{Name: backup.FileName(now, compressed), Data: data}
		t.meta.Exported = true
		return t.save(ctx)
	})
	if err != nil {
		return Export{}, err
	}

	t.lg.Info("Backup exported", zap.String("file", out.Name), zap.Int("bytes", len(out.Data)))
	return out, nil
}

// ExportDailyReport renders today's report and marks the sales as exported.
// It returns report.ErrNoSales when nothing was sold today.
func (t *Terminal) ExportDailyReport(ctx context.Context, passphrase string) (Export, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out Export
	err := t.privileged("export daily report", passphrase, func() error {
		now := t.clock()
		text, err := report.Daily(t.ledger.OnDay(t.today(), t.loc), t.catalog, t.settings, now)
		if err != nil {
			return err
		}
		out = Export{Name: backup.ReportFileName(t.settings.StoreName, now), Data: []byte(text)}
		t.meta.Exported = true
		return t.save(ctx)
	})
	if err != nil {
		return Export{}, err
	}

	t.lg.Info("Daily report exported", zap.String("file", out.Name))
	return out, nil
}

// ImportBackup replaces catalog, sales and settings with a backup. When the
// terminal already holds products or sales the import must be confirmed.
// Settings are kept when the backup carries none.
func (t *Terminal) ImportBackup(ctx context.Context, data []byte, confirm bool) error {
	doc, err := backup.Decode(data)
	if err != nil {
		return err
	}
	s := settings.Default()
	if doc.Settings != nil {
		s = *doc.Settings
		if err := s.Validate(); err != nil {
			return errors.Wrap(backup.ErrInvalidFileFormat, err.Error())
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if (t.catalog.Len() > 0 || t.ledger.Len() > 0) && !confirm {
		return ErrConfirmationRequired
	}
	if doc.Settings == nil {
		s = t.settings
	}

	t.install(doc.Products, doc.Sales, s)
	if err := t.save(ctx); err != nil {
		return err
	}

	t.lg.Info("Backup imported",
		zap.Int("products", len(doc.Products)),
		zap.Int("sales", len(doc.Sales)),
	)
	return nil
}

// EndSession clears the sales ledger and keeps the catalog. Sales must be
// exported first. Stores that can archive receive the cleared sales.
func (t *Terminal) EndSession(ctx context.Context, passphrase string, confirm bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.meta.Exported && t.ledger.Len() > 0 {
		return ErrExportRequired
	}

	var cleared int
	err := t.privileged("end session", passphrase, func() error {
		if !confirm {
			return ErrConfirmationRequired
		}
		sales := t.ledger.Sales()
		if a, ok := t.store.(storage.Archiver); ok {
			if err := a.Archive(ctx, sales); err != nil {
				return errors.Wrap(err, "archive sales")
			}
		}
		cleared = len(sales)
		t.ledger.Clear()
		t.meta = meta{SessionStart: t.clock()}
		return t.save(ctx)
	})
	if err != nil {
		return err
	}

	t.lg.Info("Session ended", zap.Int("sales_cleared", cleared))
	return nil
}

// Reset deletes all persisted data and restores defaults.
func (t *Terminal) Reset(ctx context.Context, passphrase string, confirm bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.privileged("reset", passphrase, func() error {
		if !confirm {
			return ErrConfirmationRequired
		}
		for _, key := range []string{storage.KeyProducts, storage.KeySales, storage.KeySettings, storage.KeyMeta} {
			if err := t.store.Delete(ctx, key); err != nil {
				return errors.Wrapf(err, "delete %s", key)
			}
		}
		t.install(nil, nil, settings.Default())
		t.meta = meta{SessionStart: t.clock()}
		return nil
	})
	if err != nil {
		return err
	}

	t.lg.Warn("Terminal reset")
	return nil
}
