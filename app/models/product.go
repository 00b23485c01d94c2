package models

import "github.com/shopspring/decimal"

// Product is a read-only catalog entry. DiscountPercent is derived from
// Price and MRP when the catalog is loaded and is never taken from input.
type Product struct {
	ID              string          `json:"id"`
	Slug            string          `json:"slug"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory"`
	Price           decimal.Decimal `json:"price"`
	MRP             decimal.Decimal `json:"mrp"`
	DiscountPercent int64           `json:"discountPercent"`
	Description     string          `json:"description"`
	Benefits        []string        `json:"benefits"`
	Ingredients     string          `json:"ingredients"`
	Weight          string          `json:"weight"`
	Image           string          `json:"image"`
	Rating          float64         `json:"rating"`
	ReviewsCount    int             `json:"reviewsCount"`
	InStock         bool            `json:"inStock"`
	Featured        bool            `json:"featured"`
	Trending        bool            `json:"trending"`
}

// ProductFilter mirrors the filters of the products listing page.
type ProductFilter struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
