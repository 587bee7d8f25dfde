package filter

import (
	"slices"
	"strings"

	"github.com/example/ecofinds/internal/domain/catalog"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortEcoImpact SortKey = "eco-impact"
	SortRating    SortKey = "rating"
)

var SortKeys = []SortKey{SortNewest, SortPriceLow, SortPriceHigh, SortEcoImpact, SortRating}

// ParseSortKey maps a client value to a sort key. Unknown or empty values sort newest first.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, key) {
		return key
	}
	return SortNewest
}

// PriceRange is an inclusive [Min, Max] bound on price
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is the browse slider's initial range
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Criteria selects and orders the visible products.
// Zero values match everything: empty search, "all" or empty category, nil price range,
// empty condition set, verified-only off.
type Criteria struct {
	Search       string              `json:"search"`
	Category     string              `json:"category"`
	Price        *PriceRange         `json:"price,omitempty"`
	Conditions   []catalog.Condition `json:"conditions"`
	VerifiedOnly bool                `json:"verified_only"`
	Sort         SortKey             `json:"sort"`
}

func (c Criteria) Matches(p catalog.Product) bool {
	if c.Search != "" {
		q := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if c.Category != "" && !strings.EqualFold(c.Category, "all") && !strings.EqualFold(c.Category, p.Category) {
		return false
	}
	if c.Price != nil && !c.Price.Contains(p.Price) {
		return false
	}
	if len(c.Conditions) > 0 && !slices.Contains(c.Conditions, p.Condition) {
		return false
	}
	if c.VerifiedOnly && !p.Seller.Verified {
		return false
	}
	return true
}

// Apply returns the matching products in sort order. The input is not modified and ties keep input order.
func Apply(products []catalog.Product, c Criteria) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, comparator(ParseSortKey(string(c.Sort))))
	return out
}

func comparator(key SortKey) func(a, b catalog.Product) int {
	switch key {
	case SortPriceLow:
		return func(a, b catalog.Product) int { return cmpFloat(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b catalog.Product) int { return cmpFloat(b.Price, a.Price) }
	case SortEcoImpact:
		return func(a, b catalog.Product) int { return cmpFloat(b.CO2Saved, a.CO2Saved) }
	case SortRating:
		return func(a, b catalog.Product) int { return cmpFloat(b.Seller.Rating, a.Seller.Rating) }
	default:
		return func(a, b catalog.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
