// Package pos is the controller of a single point-of-sale terminal.
//
// A Terminal owns the catalog, the cart, the sales ledger and the store
// settings. Every operation runs to completion under one lock, and every
// change to persistent state is written to the configured storage.Store
// before the operation returns.
package pos

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/xenking/till/internal/domain/cart"
	"github.com/xenking/till/internal/domain/checkout"
	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
	"github.com/xenking/till/internal/domain/settings"
	"github.com/xenking/till/internal/gate"
	"github.com/xenking/till/internal/storage"
)

var (
	// ErrConfirmationRequired is returned by destructive operations called
	// without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrExportRequired is returned when ending a session whose sales have
	// not been exported.
	ErrExportRequired = errors.New("export sales before ending the session")
	// ErrSaleNotFound is returned when a sale id is not in the ledger.
	ErrSaleNotFound = errors.New("sale not found")
)

// Options configures a Terminal.
type Options struct {
	Store storage.Store
	Gate  *gate.Gate

	Logger        *zap.Logger
	MeterProvider metric.MeterProvider
	// Location is the time zone days are counted in. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Terminal is the application state of one till.
type Terminal struct {
	mu sync.Mutex

	store   storage.Store
	gate    *gate.Gate
	lg      *zap.Logger
	metrics *metrics
	loc     *time.Location
	now     func() time.Time

	catalog  *product.Catalog
	cart     *cart.Cart
	ledger   *ledger.Ledger
	checkout *checkout.Service
	settings settings.Settings
	meta     meta
}

// meta is terminal bookkeeping persisted alongside the data.
type meta struct {
	Exported     bool      `json:"exported"`
	SessionStart time.Time `json:"sessionStart"`
}

// New creates a Terminal with an empty catalog and ledger. Call Load to
// restore persisted state.
func New(opts Options) (*Terminal, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Gate == nil {
		return nil, errors.New("gate is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = noop.NewMeterProvider()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m, err := newMetrics(opts.MeterProvider.Meter("github.com/xenking/till/internal/pos"))
	if err != nil {
		return nil, errors.Wrap(err, "metrics")
	}

	t := &Terminal{
		store:   opts.Store,
		gate:    opts.Gate,
		lg:      opts.Logger,
		metrics: m,
		loc:     opts.Location,
		now:     opts.Now,
	}
	t.install(nil, nil, settings.Default())
	t.meta = meta{SessionStart: t.clock()}
	return t, nil
}

// install replaces the whole data set and resets the cart.
func (t *Terminal) install(products []product.Product, sales []ledger.Sale, s settings.Settings) {
	t.catalog = product.NewCatalog(products)
	t.ledger = ledger.New(sales)
	t.cart = cart.New(t.catalog)
	t.checkout = checkout.NewService(t.catalog, t.ledger, checkout.WithClock(t.clock))
	t.settings = s
}

func (t *Terminal) clock() time.Time {
	return t.now().In(t.loc)
}

func (t *Terminal) today() string {
	return ledger.DayKey(t.clock(), t.loc)
}

// privileged runs action once passphrase has been verified.
func (t *Terminal) privileged(name, passphrase string, action func() error) error {
	err := t.gate.Require(name, action).Verify(passphrase)
	if errors.Is(err, gate.ErrIncorrectCredential) {
		t.lg.Warn("Rejected privileged action", zap.String("action", name))
	}
	return err
}

// Exported reports whether the current sales have been exported since the
// last sale.
func (t *Terminal) Exported() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meta.Exported
}

// Load restores catalog, sales, settings and bookkeeping from the store.
// Missing keys leave the defaults in place.
func (t *Terminal) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		products []product.Product
		sales    []ledger.Sale
		s        = settings.Default()
		m        = meta{SessionStart: t.clock()}
	)
	for _, blob := range []struct {
		key string
		v   any
	}{
		{storage.KeyProducts, &products},
		{storage.KeySales, &sales},
		{storage.KeySettings, &s},
		{storage.KeyMeta, &m},
	} {
		if err := storage.Load(ctx, t.store, blob.key, blob.v); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return errors.Wrapf(err, "load %s", blob.key)
		}
	}

	t.install(products, sales, s)
	t.meta = m
	t.lg.Info("Terminal loaded",
		zap.Int("products", t.catalog.Len()),
		zap.Int("sales", t.ledger.Len()),
		zap.String("store", t.settings.StoreName),
	)
	return nil
}

// save writes every persistent blob. The store is overwritten key by key;
// a failure part way leaves earlier keys updated.
func (t *Terminal) save(ctx context.Context) error {
	for _, blob := range []struct {
		key string
		v   any
	}{
		{storage.KeyProducts, t.catalog.List()},
		{storage.KeySales, t.ledger.Sales()},
		{storage.KeySettings, t.settings},
		{storage.KeyMeta, t.meta},
	} {
		if err := storage.Save(ctx, t.store, blob.key, blob.v); err != nil {
			t.lg.Error("Persist failed", zap.String("key", blob.key), zap.Error(err))
			return errors.Wrapf(err, "save %s", blob.key)
		}
	}
	return nil
}
