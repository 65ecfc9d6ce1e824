package app

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/till/internal/gate"
	"github.com/xenking/till/internal/storage"
	"github.com/xenking/till/internal/storage/filestore"
	"github.com/xenking/till/internal/storage/memstore"
	"github.com/xenking/till/internal/storage/postgres"
	"github.com/xenking/till/internal/storage/redis"
)

// OpenStore connects the configured backend and checks that it answers.
func OpenStore(ctx context.Context, cfg StoreConfig) (storage.Store, error) {
	var (
		s   storage.Store
		err error
	)
	switch cfg.Driver {
	case DriverMemory:
		s = memstore.New()
	case DriverFile:
		s, err = filestore.New(cfg.Dir)
	case DriverRedis:
		s = redis.New(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case DriverPostgres:
		s, err = openPostgres(ctx, cfg.DatabaseURL)
	default:
		err = errors.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store", cfg.Driver)
	}

	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Wrapf(err, "ping %s store", cfg.Driver)
	}
	return s, nil
}

func openPostgres(ctx context.Context, url string) (*postgres.Store, error) {
	pool, err := postgres.NewPool(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return postgres.New(pool), nil
}

// NewGate builds the passphrase gate from configuration.
func NewGate(cfg GateConfig) (*gate.Gate, error) {
	if cfg.Hash != "" {
		return gate.New([]byte(cfg.Hash))
	}
	passphrase := cfg.Passphrase
	if passphrase == "" {
		passphrase = gate.DefaultPassphrase
	}
	return gate.FromPassphrase(passphrase, 0)
}
