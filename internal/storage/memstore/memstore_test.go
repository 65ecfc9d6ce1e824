package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/till/internal/storage"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, storage.KeySales)
	require.ErrorIs(t, err, storage.ErrNotFound)

	in := []byte(`[]`)
	require.NoError(t, s.Put(ctx, storage.KeySales, in))
	in[0] = 'x'

	got, err := s.Get(ctx, storage.KeySales)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "stored value is a copy")

	got[0] = 'y'
	again, err := s.Get(ctx, storage.KeySales)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(again), "returned value is a copy")
	assert.Equal(t, 1, s.Keys())

	require.NoError(t, s.Delete(ctx, storage.KeySales))
	assert.Equal(t, 0, s.Keys())
}

func TestStore_Envelope(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, storage.Save(ctx, s, storage.KeyMeta, map[string]bool{"exported": true}))

	var meta map[string]bool
	require.NoError(t, storage.Load(ctx, s, storage.KeyMeta, &meta))
	assert.True(t, meta["exported"])
}
