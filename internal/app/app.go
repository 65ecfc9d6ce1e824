package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/till/internal/httpapi"
	"github.com/xenking/till/internal/pos"
	"github.com/xenking/till/internal/storage"
	"github.com/xenking/till/pkg/health"
	"github.com/xenking/till/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store.Driver),
	)

	loc, err := cfg.TimeLocation()
	if err != nil {
		return err
	}
	g, err := NewGate(cfg.Gate)
	if err != nil {
		return errors.Wrap(err, "create gate")
	}
	if cfg.Gate.Hash == "" && cfg.Gate.Passphrase == "" {
		lg.Warn("Using the default passphrase, set TILL_GATE_PASSPHRASE")
	}

	raw, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = raw.Close() }()
	store := storage.Traced(raw, m.TracerProvider())

	term, err := pos.New(pos.Options{
		Store:         store,
		Gate:          g,
		Logger:        lg.Named("pos"),
		MeterProvider: m.MeterProvider(),
		Location:      loc,
	})
	if err != nil {
		return errors.Wrap(err, "create terminal")
	}
	if err := term.Load(ctx); err != nil {
		return errors.Wrap(err, "load terminal")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("store", 5*time.Second, health.PingCheck(raw))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	mux := http.NewServeMux()
	healthSvc.Register(mux)
	httpapi.New(term).Register(mux)
	routeFinder := httpmiddleware.MakeRouteFinder(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", httpapi.PassphraseHeader, httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{"Content-Disposition", httpmiddleware.RequestIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
				Only:   httpmiddleware.HasHeader(httpapi.PassphraseHeader),
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("till-api", routeFinder, m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(routeFinder),
			httpmiddleware.Labeler(routeFinder),
		),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		healthSvc.Start(ctx, 10*time.Second)
		healthSvc.SetReady(true)
		<-ctx.Done()

		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	eg.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	return eg.Wait()
}
