package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
	"github.com/xenking/till/internal/pos"
	"github.com/xenking/till/internal/storage/postgres"
)

func reportCommand() command {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dir := fs.String("dir", "", "also write the report file into this directory")

	return command{flags: fs, run: func(ctx context.Context, e *env) error {
		var out pos.Export
		err := e.privileged("report", func(p string) (err error) {
			out, err = e.term.ExportDailyReport(ctx, p)
			return err
		})
		if err != nil {
			return err
		}
		if _, err := e.out.Write(out.Data); err != nil {
			return errors.Wrap(err, "print report")
		}
		if *dir != "" {
			return writeExport(*dir, out)
		}
		return nil
	}}
}

func exportCommand() command {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory to write the backup into")
	gzip := fs.Bool("gzip", false, "gzip compress the backup")

	return command{flags: fs, run: func(ctx context.Context, e *env) error {
		var out pos.Export
		err := e.privileged("export", func(p string) (err error) {
			out, err = e.term.ExportBackup(ctx, p, *gzip)
			return err
		})
		if err != nil {
			return err
		}
		return writeExport(*dir, out)
	}}
}

func importCommand() command {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "backup file to import (.json or .json.gz)")
	confirm := fs.Bool("confirm", false, "replace existing products and sales")

	return command{flags: fs, run: func(ctx context.Context, e *env) error {
		if *file == "" {
			return errors.New("-file is required")
		}
		data, err := os.ReadFile(*file)
		if err != nil {
			return errors.Wrap(err, "read backup")
		}
		if err := e.term.ImportBackup(ctx, data, *confirm); err != nil {
			if errors.Is(err, pos.ErrConfirmationRequired) {
				return errors.Wrap(err, "the terminal holds data, rerun with -confirm")
			}
			return err
		}
		slog.Info("backup imported",
			slog.String("file", *file),
			slog.Int("products", len(e.term.Products())),
			slog.Int("sales", len(e.term.Sales())),
		)
		return nil
	}}
}

func seedCommand() command {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	file := fs.String("file", "catalog.json", "JSON array of products: name, category, price, stock")

	return command{flags: fs, run: func(ctx context.Context, e *env) error {
		slog.Info("reading catalog file", slog.String("path", *file))
		data, err := os.ReadFile(*file)
		if err != nil {
			return errors.Wrap(err, "read catalog file")
		}
		var drafts []product.Draft
		if err := json.Unmarshal(data, &drafts); err != nil {
			return errors.Wrap(err, "parse catalog JSON")
		}

		return e.privileged("seed", func(p string) error {
			for i, d := range drafts {
				created, err := e.term.AddProduct(ctx, p, d)
				if err != nil {
					return errors.Wrapf(err, "product %d (%s)", i, d.Name)
				}
				slog.Info("seeded product", slog.Int64("id", created.ID), slog.String("name", created.Name))
			}
			return nil
		})
	}}
}

func historyCommand() command {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	from := fs.String("from", "", "first day, YYYY-MM-DD (default 30 days ago)")
	to := fs.String("to", "", "last day, YYYY-MM-DD (default today)")

	return command{flags: fs, run: func(ctx context.Context, e *env) error {
		pg, ok := e.store.(*postgres.Store)
		if !ok {
			return errors.New("history needs the postgres store")
		}

		now := time.Now().In(e.loc)
		start, err := parseDay(*from, now.AddDate(0, 0, -30), e.loc)
		if err != nil {
			return err
		}
		end, err := parseDay(*to, now, e.loc)
		if err != nil {
			return err
		}

		sales, err := pg.Archived(ctx, start, end.AddDate(0, 0, 1))
		if err != nil {
			return errors.Wrap(err, "list archived sales")
		}

		tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tSALE\tUNITS\tMETHOD\tTOTAL")
		for _, s := range sales {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				s.Date.In(e.loc).Format(time.DateTime), s.ID, s.Units(), s.PaymentMethod, s.Total.StringFixed(2))
		}
		sum := ledger.Summarize(sales)
		fmt.Fprintf(tw, "\t%d sales\t\taverage %s\t%s\n",
			sum.TransactionCount, sum.AverageSaleValue.StringFixed(2), sum.TotalRevenue.StringFixed(2))
		return tw.Flush()
	}}
}

// parseDay returns the start of day s in loc, or of def when s is empty.
func parseDay(s string, def time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		y, m, d := def.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse day %q", s)
	}
	return t, nil
}

func writeExport(dir string, e pos.Export) error {
	path := filepath.Join(dir, e.Name)
	if err := os.WriteFile(path, e.Data, 0o600); err != nil {
		return errors.Wrap(err, "write file")
	}
	slog.Info("file written", slog.String("path", path), slog.Int("bytes", len(e.Data)))
	return nil
}
