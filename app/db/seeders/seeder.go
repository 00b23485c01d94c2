package seeders

import (
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/shopspring/decimal"
)

// Categories lists the storefront categories. Counts are filled in by the
// catalog repository.
func Categories() []models.Category {
	return []models.Category{
		{ID: "candies", Name: "Candies & Jellies", Icon: "🍬"},
		{ID: "confectionery", Name: "Confectionery", Icon: "🍫"},
		{ID: "bakery", Name: "Bakery & Cakes", Icon: "🎂"},
		{ID: "snacks", Name: "Snacks & Wafers", Icon: "🧇"},
	}
}

// Products is the fixed storefront catalog. Slugs and discount percentages
// are derived when the catalog repository loads it.
func Products() []models.Product {
	return []models.Product{
		{
			ID:           "1",
			Name:         "Strawberry Bliss Candy",
			Category:     "candies",
			Subcategory:  "Fruit Candies",
			Price:        decimal.NewFromInt(149),
			MRP:          decimal.NewFromInt(199),
			Description:  "Indulge in the sweet essence of summer with our Strawberry Bliss Candies. Each piece bursts with authentic strawberry flavor.",
			Benefits:     []string{"Delicious fruity flavor", "Perfect snack size", "No artificial colors"},
			Ingredients:  "Sugar, glucose syrup, natural strawberry flavoring, citric acid, fruit extracts",
			Weight:       "200g (Jar of 50 pieces)",
			Image:        "https://images.unsplash.com/photo-1582058091505-f87a2e55a40f?w=400&h=400&fit=crop",
			Rating:       4.8,
			ReviewsCount: 234,
			InStock:      true,
			Featured:     true,
			Trending:     true,
		},
		{
			ID:           "2",
			Name:         "Kacha Aam Jelly",
			Category:     "candies",
			Subcategory:  "Center-filled Jellies",
			Price:        decimal.NewFromInt(179),
			MRP:          decimal.NewFromInt(229),
			Description:  "Experience the tangy delight of raw mango with our center-filled jellies. A nostalgic treat that brings back childhood memories.",
			Benefits:     []string{"Tangy center-filled", "Traditional flavor", "Soft texture"},
			Ingredients:  "Sugar, glucose syrup, mango pulp, gelatin, citric acid, natural flavors",
			Weight:       "180g (Jar of 40 pieces)",
			Image:        "https://images.unsplash.com/photo-1587132137056-bfbf0166836e?w=400&h=400&fit=crop",
			Rating:       4.6,
			ReviewsCount: 189,
			InStock:      true,
			Featured:     true,
		},
		{
			ID:           "3",
			Name:         "Belgian Chocolate Truffle",
			Category:     "confectionery",
			Subcategory:  "Truffles",
			Price:        decimal.NewFromInt(499),
			MRP:          decimal.NewFromInt(649),
			Description:  "Luxurious Belgian chocolate truffles with a velvety ganache center. Perfect for gifting or self-indulgence.",
			Benefits:     []string{"Premium Belgian cocoa", "Smooth ganache center", "Elegant packaging"},
			Ingredients:  "Cocoa mass, cocoa butter, sugar, milk powder, vanilla extract",
			Weight:       "250g (Box of 12 pieces)",
			Image:        "https://images.unsplash.com/photo-1548907040-4baa42d10919?w=400&h=400&fit=crop",
			Rating:       4.9,
			ReviewsCount: 312,
			InStock:      true,
			Featured:     true,
			Trending:     true,
		},
		{
			ID:           "4",
			Name:         "Crispy Chocolate Wafer",
			Category:     "snacks",
			Subcategory:  "Wafers",
			Price:        decimal.NewFromInt(89),
			MRP:          decimal.NewFromInt(110),
			Description:  "Layers of crispy wafer coated in rich milk chocolate. The perfect tea-time companion.",
			Benefits:     []string{"Crispy layers", "Rich chocolate coating", "Individually wrapped"},
			Ingredients:  "Wheat flour, sugar, cocoa butter, milk chocolate, vegetable oil, vanilla",
			Weight:       "150g (Pack of 12)",
			Image:        "https://images.unsplash.com/photo-1621939514649-280e2ee25f60?w=400&h=400&fit=crop",
			Rating:       4.5,
			ReviewsCount: 456,
			InStock:      true,
			Trending:     true,
		},
		{
			ID:           "5",
			Name:         "Classic Butter Cake",
			Category:     "bakery",
			Subcategory:  "Cakes",
			Price:        decimal.NewFromInt(399),
			MRP:          decimal.NewFromInt(499),
			Description:  "Soft, moist butter cake made with premium ingredients. A timeless classic for every celebration.",
			Benefits:     []string{"Freshly baked", "Rich butter flavor", "Moist texture"},
			Ingredients:  "Flour, butter, eggs, sugar, vanilla essence, baking powder, milk",
			Weight:       "500g",
			Image:        "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=400&fit=crop",
			Rating:       4.7,
			ReviewsCount: 178,
			InStock:      true,
			Featured:     true,
		},
		{
			ID:           "6",
			Name:         "Orange Cream Lollipop",
			Category:     "candies",
			Subcategory:  "Lollipops",
			Price:        decimal.NewFromInt(59),
			MRP:          decimal.NewFromInt(79),
			Description:  "Swirled orange and cream lollipops with a delightful citrus burst. Fun for kids and adults alike!",
			Benefits:     []string{"Two-flavor swirl", "Long-lasting", "Natural orange flavor"},
			Ingredients:  "Sugar, glucose syrup, cream powder, orange extract, citric acid",
			Weight:       "120g (Pack of 10)",
			Image:        "https://images.unsplash.com/photo-1575224300306-1b8da36134ec?w=400&h=400&fit=crop",
			Rating:       4.4,
			ReviewsCount: 98,
			InStock:      true,
		},
		{
			ID:           "7",
			Name:         "Almond Praline Bar",
			Category:     "confectionery",
			Subcategory:  "Bars",
			Price:        decimal.NewFromInt(199),
			MRP:          decimal.NewFromInt(249),
			Description:  "Crunchy roasted almonds embedded in smooth praline and covered with milk chocolate.",
			Benefits:     []string{"Whole almonds", "Caramelized praline", "Premium chocolate"},
			Ingredients:  "Almonds, sugar, cocoa butter, milk powder, vanilla, sea salt",
			Weight:       "100g",
			Image:        "https://images.unsplash.com/photo-1606312619070-d48b4c652a52?w=400&h=400&fit=crop",
			Rating:       4.8,
			ReviewsCount: 267,
			InStock:      true,
			Featured:     true,
			Trending:     true,
		},
		{
			ID:           "8",
			Name:         "Red Velvet Cupcakes",
			Category:     "bakery",
			Subcategory:  "Cupcakes",
			Price:        decimal.NewFromInt(299),
			MRP:          decimal.NewFromInt(379),
			Description:  "Gorgeous red velvet cupcakes topped with cream cheese frosting. A visual and tasteful delight!",
			Benefits:     []string{"Cream cheese frosting", "Moist crumb", "Perfect portion size"},
			Ingredients:  "Flour, cocoa, buttermilk, eggs, cream cheese, butter, red food color",
			Weight:       "Pack of 4",
			Image:        "https://images.unsplash.com/photo-1614707267537-b85aaf00c4b7?w=400&h=400&fit=crop",
			Rating:       4.9,
			ReviewsCount: 145,
			InStock:      true,
			Featured:     true,
			Trending:     true,
		},
	}
}
