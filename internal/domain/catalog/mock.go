package catalog

import "time"

// BrowseCategories are the category chips on the browse screen
var BrowseCategories = []string{"all", "Fashion", "Electronics", "Furniture", "Books", "Sports"}

// HomeCategories are the category chips on the home screen
var HomeCategories = []string{"Fashion", "Electronics", "Furniture", "Books", "Sports"}

// ListingCategories are the categories a seller can pick when creating a listing
var ListingCategories = []string{
	"Fashion", "Electronics", "Furniture", "Books", "Sports", "Home & Garden", "Toys", "Art & Collectibles",
}

func price(v float64) *float64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// MockProducts returns the sample catalog served when no catalog database is configured
func MockProducts() []Product {
	return []Product{
		{
			ID:            "1",
			Title:         "Vintage Leather Jacket",
			Price:         89,
			OriginalPrice: price(159),
			Condition:     ConditionExcellent,
			Category:      "Fashion",
			Description:   "Beautiful vintage leather jacket in excellent condition. Genuine leather with minimal wear.",
			Images: []string{
				"https://images.unsplash.com/photo-1551028719-00167b16eac5?w=400",
				"https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=400",
			},
			Seller:    Seller{ID: "seller1", Name: "Sarah Johnson", Verified: true, Rating: 4.8},
			Location:  "Brooklyn, NY",
			CO2Saved:  2.5,
			CreatedAt: date("2024-01-15"),
		},
		{
			ID:            "2",
			Title:         `MacBook Pro 13" 2020`,
			Price:         899,
			OriginalPrice: price(1299),
			Condition:     ConditionGood,
			Category:      "Electronics",
			Description:   "MacBook Pro in good working condition. Minor scratches but fully functional.",
			Images: []string{
				"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400",
			},
			Seller:    Seller{ID: "seller2", Name: "Mike Chen", Verified: true, Rating: 4.9},
			Location:  "San Francisco, CA",
			CO2Saved:  45.2,
			CreatedAt: date("2024-01-20"),
			Saved:     true,
		},
		{
			ID:            "3",
			Title:         "Wooden Coffee Table",
			Price:         120,
			OriginalPrice: price(249),
			Condition:     ConditionGood,
			Category:      "Furniture",
			Description:   "Solid wood coffee table with beautiful grain. Perfect for living room.",
			Images: []string{
				"https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400",
			},
			Seller:    Seller{ID: "seller3", Name: "Emma Wilson", Verified: false, Rating: 4.3},
			Location:  "Austin, TX",
			CO2Saved:  12.8,
			CreatedAt: date("2024-01-18"),
		},
		{
			ID:            "4",
			Title:         "Nike Running Shoes",
			Price:         45,
			OriginalPrice: price(89),
			Condition:     ConditionFair,
			Category:      "Fashion",
			Description:   "Comfortable running shoes with some wear on the soles but still good for training.",
			Images: []string{
				"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400",
			},
			Seller:    Seller{ID: "seller4", Name: "James Rodriguez", Verified: true, Rating: 4.6},
			Location:  "Miami, FL",
			CO2Saved:  3.2,
			CreatedAt: date("2024-01-22"),
		},
	}
}
