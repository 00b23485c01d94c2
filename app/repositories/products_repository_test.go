package repositories

import (
	"context"
	"testing"

	"github.com/Rakhulsr/mellomelt/app/db/seeders"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) ProductRepositoryImpl {
	t.Helper()
	repo, err := NewProductRepository(seeders.Products(), seeders.Categories())
	require.NoError(t, err)
	return repo
}

func productIDs(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCatalogDerivesSlugAndDiscount(t *testing.T) {
	repo := newCatalog(t)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "strawberry-bliss-candy", p.Slug)
	assert.Equal(t, int64(25), p.DiscountPercent)

	bySlug, err := repo.GetBySlug(ctx, "red-velvet-cupcakes")
	require.NoError(t, err)
	assert.Equal(t, "8", bySlug.ID)
	assert.Equal(t, int64(21), bySlug.DiscountPercent)

	_, err = repo.GetByID(ctx, "99")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogRejectsPriceAboveMRP(t *testing.T) {
	products := []models.Product{{
		ID:       "x",
		Name:     "Overpriced Toffee",
		Category: "candies",
		Price:    decimal.NewFromInt(120),
		MRP:      decimal.NewFromInt(100),
	}}

	_, err := NewProductRepository(products, seeders.Categories())
	assert.ErrorContains(t, err, "exceeds mrp")
}

func TestCatalogRejectsUnknownCategory(t *testing.T) {
	products := []models.Product{{
		ID:       "x",
		Name:     "Mystery Box",
		Category: "gifts",
		Price:    decimal.NewFromInt(10),
		MRP:      decimal.NewFromInt(10),
	}}

	_, err := NewProductRepository(products, seeders.Categories())
	assert.ErrorContains(t, err, "unknown category")
}

func TestCatalogFilter(t *testing.T) {
	repo := newCatalog(t)
	ctx := context.Background()
	minPrice := decimal.NewFromInt(100)
	maxPrice := decimal.NewFromInt(300)

	tests := []struct {
		name   string
		filter models.ProductFilter
		want   []string
	}{
		{"no filter", models.ProductFilter{}, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"all category", models.ProductFilter{Category: "all"}, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"category", models.ProductFilter{Category: "bakery"}, []string{"5", "8"}},
		{"price range inclusive", models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, []string{"1", "2", "7", "8"}},
		{"category and search", models.ProductFilter{Category: "candies", Search: "MANGO"}, []string{"2"}},
		{"nothing matches", models.ProductFilter{Category: "snacks", Search: "truffle"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Filter(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, productIDs(got))
		})
	}
}

func TestCatalogFeaturedTrendingSearch(t *testing.T) {
	repo := newCatalog(t)
	ctx := context.Background()

	featured, err := repo.GetFeaturedProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "5", "7", "8"}, productIDs(featured))

	trending, err := repo.GetTrendingProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4", "7", "8"}, productIDs(trending))

	found, err := repo.SearchProducts(ctx, "almonds")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, productIDs(found))

	found, err = repo.SearchProducts(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCatalogCategoryCounts(t *testing.T) {
	repo := newCatalog(t)

	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, c := range categories {
		counts[c.ID] = c.Count
	}
	assert.Equal(t, map[string]int{"candies": 3, "confectionery": 2, "bakery": 2, "snacks": 1}, counts)
}
