package cart

import (
	"math/rand/v2"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/till/internal/domain/product"
)

// --- Helpers ---

type mapLookup map[int64]product.Product

func (m mapLookup) Get(id int64) (product.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func newLookup(products ...product.Product) mapLookup {
	m := make(mapLookup, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func coffee() product.Product {
	return product.Product{
		ID:    1,
		Name:  "Coffee",
		Price: decimal.RequireFromString("2.50"),
		Stock: product.StockPtr(10),
	}
}

func water() product.Product {
	return product.Product{
		ID:    2,
		Name:  "Water",
		Price: decimal.RequireFromString("1.25"),
	}
}

// --- Tests ---

func TestCart_AddIncrementsExistingLine(t *testing.T) {
	c := New(newLookup(coffee()))

	for range 3 {
		require.NoError(t, c.Add(1, 1))
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("7.50").Equal(c.Subtotal()))
}

func TestCart_AddKeepsInsertionOrder(t *testing.T) {
	c := New(newLookup(coffee(), water()))

	require.NoError(t, c.Add(2, 1))
	require.NoError(t, c.Add(1, 1))
	require.NoError(t, c.Add(2, 1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_AddBeyondStock(t *testing.T) {
	c := New(newLookup(coffee()))

	err := c.Add(1, 11)

	var sErr *StockError
	require.ErrorAs(t, err, &sErr)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 11, sErr.Requested)
	assert.Equal(t, 10, sErr.Available)
	assert.True(t, c.Empty())
}

func TestCart_AddUnknownProduct(t *testing.T) {
	c := New(newLookup())

	require.ErrorIs(t, c.Add(42, 1), ErrOutOfStock)
	assert.True(t, c.Empty())
}

func TestCart_AddZeroStock(t *testing.T) {
	p := coffee()
	p.Stock = product.StockPtr(0)
	c := New(newLookup(p))

	require.ErrorIs(t, c.Add(1, 1), ErrOutOfStock)
}

func TestCart_AddUntrackedIsUnlimited(t *testing.T) {
	c := New(newLookup(water()))

	require.NoError(t, c.Add(2, 5000))
	assert.Equal(t, 5000, c.ItemCount())
}

func TestCart_SetQuantity(t *testing.T) {
	c := New(newLookup(coffee()))
	require.NoError(t, c.Add(1, 3))

	require.NoError(t, c.SetQuantity(1, 10))
	assert.Equal(t, 10, c.Lines()[0].Quantity)

	err := c.SetQuantity(1, 11)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, c.Lines()[0].Quantity, "quantity unchanged on failure")

	require.NoError(t, c.SetQuantity(1, 0))
	assert.True(t, c.Empty())
}

func TestCart_SetQuantityAbsentLineIsNoop(t *testing.T) {
	c := New(newLookup(coffee()))

	require.NoError(t, c.SetQuantity(1, 5))
	assert.True(t, c.Empty())
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	c := New(newLookup(coffee(), water()))
	require.NoError(t, c.Add(1, 1))
	require.NoError(t, c.Add(2, 1))

	c.Remove(1)
	c.Remove(1)
	c.Remove(99)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(2), c.Lines()[0].ProductID)
}

func TestCart_PriceSnapshottedAtAdd(t *testing.T) {
	lookup := newLookup(coffee())
	c := New(lookup)
	require.NoError(t, c.Add(1, 1))

	p := lookup[1]
	p.Price = decimal.RequireFromString("9.99")
	lookup[1] = p
	require.NoError(t, c.Add(1, 1))

	assert.True(t, decimal.RequireFromString("2.50").Equal(c.Lines()[0].Price))
	assert.True(t, decimal.RequireFromString("5.00").Equal(c.Subtotal()))
}

func TestCart_Clear(t *testing.T) {
	c := New(newLookup(coffee()))
	require.NoError(t, c.Add(1, 2))

	c.Clear()

	assert.True(t, c.Empty())
	assert.True(t, decimal.Zero.Equal(c.Subtotal()))
}

func TestCart_RandomOperationsKeepInvariants(t *testing.T) {
	products := []product.Product{
		coffee(),
		water(),
		{ID: 3, Name: "Muffin", Price: decimal.RequireFromString("3.10"), Stock: product.StockPtr(2)},
	}
	lookup := newLookup(products...)
	c := New(lookup)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 2000 {
		id := int64(rng.IntN(4) + 1)
		switch rng.IntN(3) {
		case 0:
			_ = c.Add(id, rng.IntN(4))
		case 1:
			_ = c.SetQuantity(id, rng.IntN(14)-2)
		case 2:
			c.Remove(id)
		}

		seen := make(map[int64]bool)
		want := decimal.Zero
		lines := c.Lines()
		for _, l := range lines {
			require.Positive(t, l.Quantity, "step %d: %s", i, spew.Sdump(lines))
			require.False(t, seen[l.ProductID], "duplicate line at step %d: %s", i, spew.Sdump(lines))
			seen[l.ProductID] = true
			p := lookup[l.ProductID]
			require.True(t, p.Allows(l.Quantity), "stock exceeded at step %d: %s", i, spew.Sdump(lines))
			want = want.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, want.Equal(c.Subtotal()), "subtotal mismatch at step %d", i)
	}
}
