package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartAccumulatesIntoOneLine(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
	candy := product(t, catalog, "1")

	for _, qty := range []int{1, 2, 3, 4} {
		store.AddToCart(ctx, candy, qty)
	}

	snap := store.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 10, snap.Lines[0].Quantity)
	assert.Equal(t, 10, store.TotalItems())
	assert.Equal(t, 1, store.DistinctItems())
	assert.True(t, decimal.NewFromInt(1490).Equal(store.TotalPrice()))
}

func TestCartScenario(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
	candy := product(t, catalog, "1")

	store.AddToCart(ctx, candy, 2)
	assert.Equal(t, "298", store.TotalPrice().String())

	store.AddToCart(ctx, candy, 1)
	snap := store.Snapshot()
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.Equal(t, "447", snap.TotalPrice.String())

	snap = store.RemoveFromCart(ctx, candy.ID)
	assert.True(t, snap.IsEmpty())
	assert.Equal(t, 0, snap.TotalItems)
}

func TestAddToCartClampsQuantity(t *testing.T) {
	catalog := testCatalog(t)
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)

	snap := store.AddToCart(context.Background(), product(t, catalog, "6"), 0)
	assert.Equal(t, 1, snap.TotalItems)

	snap = store.AddToCart(context.Background(), product(t, catalog, "6"), -5)
	assert.Equal(t, 2, snap.TotalItems)
}

func TestUpdateQuantity(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		productID string
		quantity  int
		wantLines int
		wantItems int
	}{
		{"sets exact quantity", "3", 7, 2, 8},
		{"zero removes the line", "3", 0, 1, 1},
		{"negative removes the line", "3", -2, 1, 1},
		{"unknown product is ignored", "99", 5, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
			store.AddToCart(ctx, product(t, catalog, "3"), 2)
			store.AddToCart(ctx, product(t, catalog, "4"), 1)
			before := store.Version()

			snap := store.UpdateQuantity(ctx, tt.productID, tt.quantity)

			assert.Len(t, snap.Lines, tt.wantLines)
			assert.Equal(t, tt.wantItems, snap.TotalItems)
			for _, l := range snap.Lines {
				assert.GreaterOrEqual(t, l.Quantity, 1)
			}
			if tt.productID == "99" {
				assert.Equal(t, before, store.Version())
			}
		})
	}
}

func TestInsertionOrderIsKept(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)

	for _, id := range []string{"5", "2", "8"} {
		store.AddToCart(ctx, product(t, catalog, id), 1)
	}
	store.AddToCart(ctx, product(t, catalog, "5"), 1)

	var ids []string
	for _, l := range store.Snapshot().Lines {
		ids = append(ids, l.Product.ID)
	}
	assert.Equal(t, []string{"5", "2", "8"}, ids)
}

func TestClearCartIsIdempotent(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
	store.AddToCart(ctx, product(t, catalog, "7"), 3)

	first := store.ClearCart(ctx)
	second := store.ClearCart(ctx)

	assert.True(t, first.IsEmpty())
	assert.True(t, second.IsEmpty())
	assert.Equal(t, 0, second.TotalItems)
	assert.True(t, second.TotalPrice.IsZero())
}

func TestCartPersistsAndRestores(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()

	store := NewCartStore(storage, nil)
	store.AddToCart(ctx, product(t, catalog, "1"), 2)
	store.AddToCart(ctx, product(t, catalog, "3"), 1)
	store.SetIsCartOpen(true)

	payload, ok, err := storage.Get(ctx, CartStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var stored []models.CartLine
	require.NoError(t, json.Unmarshal([]byte(payload), &stored))
	assert.Len(t, stored, 2)
	assert.NotContains(t, payload, "isOpen")

	restored := NewCartStore(storage, nil)
	require.NoError(t, restored.Load(ctx))
	snap := restored.Snapshot()
	assert.Equal(t, 3, snap.TotalItems)
	assert.Equal(t, "797", snap.TotalPrice.String())
	assert.False(t, snap.IsOpen)
}

func TestStorageFailureDegradesToMemory(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()
	storage.SetFailure(errors.New("quota exceeded"))
	store := NewCartStore(storage, nil)

	snap := store.AddToCart(ctx, product(t, catalog, "2"), 2)

	assert.Equal(t, 2, snap.TotalItems)
	assert.EqualError(t, store.PersistWarning(), "quota exceeded")

	storage.SetFailure(nil)
	store.AddToCart(ctx, product(t, catalog, "2"), 1)
	assert.NoError(t, store.PersistWarning())

	restored := NewCartStore(storage, nil)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, 3, restored.TotalItems())
}

func TestSubscribeNotifiesEveryMutation(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)

	var seen []int
	unsubscribe := store.Subscribe(func(s models.CartSnapshot) {
		seen = append(seen, s.TotalItems)
	})

	store.AddToCart(ctx, product(t, catalog, "4"), 2)
	store.UpdateQuantity(ctx, "4", 5)
	store.UpdateQuantity(ctx, "missing", 1)
	store.RemoveFromCart(ctx, "4")
	unsubscribe()
	store.AddToCart(ctx, product(t, catalog, "4"), 1)

	assert.Equal(t, []int{2, 5, 0}, seen)
}

func TestReloadReplacesInsteadOfMerging(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()

	tabA := NewCartStore(storage, nil)
	tabB := NewCartStore(storage, nil)
	tabA.AddToCart(ctx, product(t, catalog, "1"), 1)
	tabB.AddToCart(ctx, product(t, catalog, "8"), 4)

	snap, err := tabA.Reload(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "8", snap.Lines[0].Product.ID)
	assert.Equal(t, 4, snap.TotalItems)
}

func TestLoadRefreshesFromCatalog(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()

	stale := product(t, catalog, "1")
	stale.Price = decimal.NewFromInt(1)
	gone := models.Product{ID: "404", Name: "Discontinued", Price: decimal.NewFromInt(10)}
	payload, err := json.Marshal([]models.CartLine{
		{Product: stale, Quantity: 2},
		{Product: gone, Quantity: 1},
		{Product: stale, Quantity: 1},
		{Product: product(t, catalog, "2"), Quantity: 0},
	})
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, CartStorageKey, string(payload)))

	store := NewCartStore(storage, nil, WithCatalog(catalog))
	require.NoError(t, store.Load(ctx))

	snap := store.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.Equal(t, "447", snap.TotalPrice.String())
}

func TestLoadCorruptPayload(t *testing.T) {
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()
	require.NoError(t, storage.Set(ctx, CartStorageKey, "{not json"))

	store := NewCartStore(storage, nil)
	assert.Error(t, store.Load(ctx))
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestDeductKeepsLaterAdditions(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
	store.AddToCart(ctx, product(t, catalog, "1"), 2)
	submitted := store.Snapshot().Lines

	store.AddToCart(ctx, product(t, catalog, "1"), 1)
	store.AddToCart(ctx, product(t, catalog, "5"), 1)
	snap := store.Deduct(ctx, submitted)

	require.Len(t, snap.Lines, 2)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	assert.Equal(t, "5", snap.Lines[1].Product.ID)
}

func TestCartServiceAddItem(t *testing.T) {
	catalog := testCatalog(t)
	svc := NewCartService(catalog)
	store := NewCartStore(repositories.NewMemoryCartStorage(), nil)

	snap, err := svc.AddItem(context.Background(), store, "3", 2)
	require.NoError(t, err)
	assert.Equal(t, "998", snap.TotalPrice.String())

	_, err = svc.AddItem(context.Background(), store, "99", 1)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestSettle(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	t.Run("unchanged cart is cleared", func(t *testing.T) {
		store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
		store.AddToCart(ctx, product(t, catalog, "1"), 2)
		snap := store.Snapshot()

		assert.True(t, store.Settle(ctx, snap.Lines, snap.Version).IsEmpty())
	})

	t.Run("later additions survive", func(t *testing.T) {
		store := NewCartStore(repositories.NewMemoryCartStorage(), nil)
		store.AddToCart(ctx, product(t, catalog, "1"), 2)
		snap := store.Snapshot()
		store.AddToCart(ctx, product(t, catalog, "7"), 1)

		after := store.Settle(ctx, snap.Lines, snap.Version)
		require.Len(t, after.Lines, 1)
		assert.Equal(t, "7", after.Lines[0].Product.ID)
	})
}

func TestFailedRestoreKeepsStoredCart(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()
	NewCartStore(storage, nil).AddToCart(ctx, product(t, catalog, "1"), 3)

	storage.SetReadFailure(errors.New("connection reset"))
	store := NewCartStore(storage, nil)
	require.Error(t, store.Load(ctx))
	assert.False(t, store.Restored())

	store.AddToCart(ctx, product(t, catalog, "2"), 1)
	assert.ErrorIs(t, store.PersistWarning(), ErrCartNotRestored)

	storage.SetReadFailure(nil)
	stored := NewCartStore(storage, nil)
	require.NoError(t, stored.Load(ctx))
	assert.Equal(t, 3, stored.TotalItems())

	snap, err := store.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.TotalItems)
	assert.NoError(t, store.PersistWarning())

	merged := NewCartStore(storage, nil)
	require.NoError(t, merged.Load(ctx))
	assert.Equal(t, 4, merged.TotalItems())
}
