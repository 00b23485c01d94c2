package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/gosimple/slug"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepositoryImpl interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]models.Product, error)
	GetTrendingProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]models.Product, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
}

// productRepository is the read-only catalog. It is built once from seed
// data and never mutated, so reads need no locking.
type productRepository struct {
	products   []models.Product
	byID       map[string]int
	bySlug     map[string]int
	categories []models.Category
}

// NewProductRepository validates the catalog and derives slugs and discount
// percentages. A product priced above its MRP or filed under an unknown
// category fails the load.
func NewProductRepository(products []models.Product, categories []models.Category) (ProductRepositoryImpl, error) {
	r := &productRepository{
		products:   make([]models.Product, 0, len(products)),
		byID:       make(map[string]int, len(products)),
		bySlug:     make(map[string]int, len(products)),
		categories: make([]models.Category, len(categories)),
	}

	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.ID] = 0
	}

	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product %q has no id", p.Name)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %s", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("catalog: product %s has a negative price", p.ID)
		}
		if p.Price.GreaterThan(p.MRP) {
			return nil, fmt.Errorf("catalog: product %s price %s exceeds mrp %s", p.ID, p.Price, p.MRP)
		}
		if _, ok := counts[p.Category]; !ok {
			return nil, fmt.Errorf("catalog: product %s has unknown category %q", p.ID, p.Category)
		}

		if p.Slug == "" {
			p.Slug = slug.Make(p.Name)
		}
		if _, dup := r.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("catalog: duplicate product slug %s", p.Slug)
		}
		p.DiscountPercent = calc.DiscountPercent(p.Price, p.MRP)
		p.Benefits = append([]string(nil), p.Benefits...)

		r.byID[p.ID] = len(r.products)
		r.bySlug[p.Slug] = len(r.products)
		r.products = append(r.products, p)
		counts[p.Category]++
	}

	for i, c := range categories {
		c.Count = counts[c.ID]
		r.categories[i] = c
	}

	return r, nil
}

func (r *productRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	return r.collect(func(models.Product) bool { return true }), nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, s string) (*models.Product, error) {
	i, ok := r.bySlug[s]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}

// Filter applies the listing page filters. Zero-value fields match
// everything; the price bounds are inclusive.
func (r *productRepository) Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	category := strings.TrimSpace(filter.Category)
	if category == "all" {
		category = ""
	}
	keyword := strings.ToLower(strings.TrimSpace(filter.Search))

	return r.collect(func(p models.Product) bool {
		if category != "" && p.Category != category {
			return false
		}
		if keyword != "" && !matches(p, keyword) {
			return false
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			return false
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			return false
		}
		return true
	}), nil
}

func (r *productRepository) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return r.collect(func(p models.Product) bool { return p.Featured }), nil
}

func (r *productRepository) GetTrendingProducts(ctx context.Context) ([]models.Product, error) {
	return r.collect(func(p models.Product) bool { return p.Trending }), nil
}

// SearchProducts matches name, category, description and ingredients,
// case-insensitively. An empty keyword returns nothing.
func (r *productRepository) SearchProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return []models.Product{}, nil
	}
	return r.collect(func(p models.Product) bool { return matches(p, keyword) }), nil
}

func (r *productRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *productRepository) collect(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Product, keyword string) bool {
	return strings.Contains(strings.ToLower(p.Name), keyword) ||
		strings.Contains(strings.ToLower(p.Category), keyword) ||
		strings.Contains(strings.ToLower(p.Description), keyword) ||
		strings.Contains(strings.ToLower(p.Ingredients), keyword)
}
