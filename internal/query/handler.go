package query

import (
	"strings"
	"time"

	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/filter"
)

const (
	featuredCount   = 2
	trendingTitle   = "Trending Products"
	notFoundMessage = "Product not found"
)

// Handler builds screen payloads over the shared catalog snapshot
type Handler struct {
	catalog *catalog.Catalog
}

func NewHandler(c *catalog.Catalog) *Handler {
	return &Handler{catalog: c}
}

func (h *Handler) Catalog() *catalog.Catalog {
	return h.catalog
}

// markSaved copies products with Saved reflecting the session's saved set
func markSaved(products []catalog.Product, saved map[string]bool) []catalog.Product {
	out := make([]catalog.Product, len(products))
	for i, p := range products {
		p.Saved = saved[p.ID]
		out[i] = p
	}
	return out
}

// Home: the first two products are featured, the rest trend unless a category chip is selected
func (h *Handler) Home(search, category string, saved map[string]bool) HomePayload {
	products := markSaved(h.catalog.All(), saved)

	featured := products[:min(featuredCount, len(products))]
	trending := products[len(featured):]
	title := trendingTitle
	if category != "" {
		trending = make([]catalog.Product, 0, len(products))
		for _, p := range products {
			if p.Category == category {
				trending = append(trending, p)
			}
		}
		title = category + " Items"
	}

	var co2 float64
	for _, p := range products {
		co2 += p.CO2Saved
	}

	return HomePayload{
		Search:           search,
		Categories:       catalog.HomeCategories,
		SelectedCategory: category,
		Featured:         featured,
		TrendingTitle:    title,
		Trending:         trending,
		CommunityCO2:     co2,
	}
}

func (h *Handler) Browse(criteria filter.Criteria, saved map[string]bool) BrowsePayload {
	products := filter.Apply(markSaved(h.catalog.All(), saved), criteria)
	criteria.Sort = filter.ParseSortKey(string(criteria.Sort))
	return BrowsePayload{
		Criteria:   criteria,
		Categories: catalog.BrowseCategories,
		Conditions: catalog.Conditions,
		SortKeys:   filter.SortKeys,
		Products:   products,
		Count:      len(products),
	}
}

// Product returns the detail payload, or the not-found payload for an unknown id
func (h *Handler) Product(id string, saved map[string]bool) any {
	p, ok := h.catalog.Get(id)
	if !ok {
		return ProductNotFoundPayload{ProductID: id, Message: notFoundMessage}
	}
	p.Saved = saved[p.ID]
	return ProductPayload{
		Product:              p,
		SavingsPercent:       p.SavingsPercent(),
		ConditionDescription: catalog.ConditionDescriptions[p.Condition],
		Saved:                p.Saved,
	}
}

func (h *Handler) Listing(d *listing.Draft) ListingPayload {
	return ListingPayload{
		Draft:       *d,
		Progress:    d.Progress(),
		CO2Estimate: d.CO2Estimate(),
		Categories:  catalog.ListingCategories,
		Conditions:  catalog.Conditions,
		MaxPhotos:   listing.MaxPhotos,
	}
}

func (h *Handler) Cart(c *cart.Cart, summary cart.Summary, rules cart.PricingRules) CartPayload {
	items := c.Items
	if items == nil {
		items = []cart.CartItem{}
	}
	return CartPayload{Items: items, Summary: summary, Rules: rules}
}

// Dashboard shows the user's mock listings and purchases with their totals
func (h *Handler) Dashboard(u user.User) DashboardPayload {
	listings := mockListings(u)
	purchases := mockPurchases()

	var earnings, co2, savings float64
	for _, p := range listings {
		earnings += p.Price
		co2 += p.CO2Saved
	}
	for _, p := range purchases {
		co2 += p.CO2Saved
		original := p.Price
		if p.OriginalPrice != nil {
			original = *p.OriginalPrice
		}
		savings += original - p.Price
	}

	return DashboardPayload{
		User:           u,
		Initials:       Initials(u.Name),
		Listings:       listings,
		Purchases:      purchases,
		TotalEarnings:  earnings,
		TotalCO2Impact: co2,
		TotalSavings:   savings,
	}
}

// Initials takes the first letter of each word in a name
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

func ptr(v float64) *float64 { return &v }

func mockListings(u user.User) []catalog.Product {
	return []catalog.Product{
		{
			ID:            "user-1",
			Title:         "Vintage Camera",
			Price:         150,
			OriginalPrice: ptr(299),
			Condition:     catalog.ConditionExcellent,
			Category:      "Electronics",
			Description:   "Beautiful vintage film camera in excellent condition.",
			Images:        []string{"https://images.unsplash.com/photo-1606983340126-99ab4feaa64a?w=400"},
			Seller: catalog.Seller{
				ID:       u.ID,
				Name:     u.Name,
				Avatar:   u.Avatar,
				Verified: u.Verified,
				Rating:   4.8,
			},
			Location:  "Brooklyn, NY",
			CO2Saved:  8.5,
			CreatedAt: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		},
	}
}

func mockPurchases() []catalog.Product {
	return []catalog.Product{
		{
			ID:            "purchase-1",
			Title:         "Wooden Coffee Table",
			Price:         120,
			OriginalPrice: ptr(249),
			Condition:     catalog.ConditionGood,
			Category:      "Furniture",
			Description:   "Solid wood coffee table with beautiful grain.",
			Images:        []string{"https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400"},
			Seller: catalog.Seller{
				ID:       "seller3",
				Name:     "Emma Wilson",
				Verified: false,
				Rating:   4.3,
			},
			Location:  "Austin, TX",
			CO2Saved:  12.8,
			CreatedAt: time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
		},
	}
}
