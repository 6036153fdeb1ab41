package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Initialize("redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func appendItem(productID uint) func([]models.CartItem) ([]models.CartItem, error) {
	return func(items []models.CartItem) ([]models.CartItem, error) {
		return append(items, models.CartItem{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}), nil
	}
}

func TestItemsOnEmptyCart(t *testing.T) {
	client, _ := newTestClient(t)

	items, err := client.Items(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMutatePersistsWithTTL(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.Mutate(ctx, "s1", appendItem(1))
	require.NoError(t, err)

	items, err := client.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(1), items[0].ProductID)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, time.Hour, mr.TTL("cart:s1"))

	mr.FastForward(2 * time.Hour)
	items, err = client.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMutateEmptyResultDropsKey(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.Mutate(ctx, "s1", appendItem(1))
	require.NoError(t, err)

	_, err = client.Mutate(ctx, "s1", func([]models.CartItem) ([]models.CartItem, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("cart:s1"))
}

func TestMutateErrorLeavesCartUntouched(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.Mutate(ctx, "s1", appendItem(1))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = client.Mutate(ctx, "s1", func(items []models.CartItem) ([]models.CartItem, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	items, err := client.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	const writers = 5
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := client.Mutate(ctx, "shared", appendItem(id))
			assert.NoError(t, err)
		}(uint(i + 1))
	}
	wg.Wait()

	items, err := client.Items(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, items, writers)
}

func TestClear(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.Mutate(ctx, "s1", appendItem(1))
	require.NoError(t, err)
	require.NoError(t, client.Clear(ctx, "s1"))
	assert.False(t, mr.Exists("cart:s1"))
}
