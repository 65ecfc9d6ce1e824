//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/till/internal/storage"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	addr := startRedis(t)

	a := New(Options{Addr: addr, Prefix: "till:a:"})
	b := New(Options{Addr: addr, Prefix: "till:b:"})
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	require.NoError(t, a.Ping(ctx))

	_, err := a.Get(ctx, storage.KeySettings)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, a.Put(ctx, storage.KeySettings, []byte(`{"version":1}`)))
	got, err := a.Get(ctx, storage.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	_, err = b.Get(ctx, storage.KeySettings)
	require.ErrorIs(t, err, storage.ErrNotFound, "prefixes isolate terminals")

	require.NoError(t, a.Delete(ctx, storage.KeySettings))
	_, err = a.Get(ctx, storage.KeySettings)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
