// Package storage defines the key-value persistence boundary of the terminal.
//
// Application state is saved as whole snapshots, one blob per key. Each blob
// is wrapped in a versioned envelope so older data can be recognised.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/till/internal/domain/ledger"
)

// Keys of the persisted blobs.
const (
	KeyProducts = "pos_products"
	KeySales    = "pos_sales"
	KeySettings = "pos_settings"
	KeyMeta     = "pos_meta"
)

// SchemaVersion is the envelope version written by this build.
const SchemaVersion = 1

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrUnsupportedVersion is returned for blobs written by an unknown schema.
	ErrUnsupportedVersion = errors.New("unsupported schema version")
)

// Store persists opaque blobs under string keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Archiver is implemented by stores that keep closed-out sales after the
// session ledger is cleared.
type Archiver interface {
	Archive(ctx context.Context, sales []ledger.Sale) error
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Save encodes v into a versioned envelope and writes it under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	blob, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", key, err)
	}
	return s.Put(ctx, key, blob)
}

// Load reads key and decodes its envelope into v. It returns ErrNotFound
// when the key is absent.
func Load(ctx context.Context, s Store, key string, v any) error {
	blob, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return fmt.Errorf("decoding %s envelope: %w", key, err)
	}
	if env.Version != SchemaVersion {
		return fmt.Errorf("%s has version %d: %w", key, env.Version, ErrUnsupportedVersion)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}
