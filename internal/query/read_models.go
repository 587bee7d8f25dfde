package query

import (
	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/filter"
)

// AuthPayload backs the login/signup screen
type AuthPayload struct {
	Message string `json:"message,omitempty"`
}

type HomePayload struct {
	Search           string            `json:"search"`
	Categories       []string          `json:"categories"`
	SelectedCategory string            `json:"selected_category,omitempty"`
	Featured         []catalog.Product `json:"featured"`
	TrendingTitle    string            `json:"trending_title"`
	Trending         []catalog.Product `json:"trending"`
	CommunityCO2     float64           `json:"community_co2"`
}

type BrowsePayload struct {
	Criteria   filter.Criteria     `json:"criteria"`
	Categories []string            `json:"categories"`
	Conditions []catalog.Condition `json:"conditions"`
	SortKeys   []filter.SortKey    `json:"sort_keys"`
	Products   []catalog.Product   `json:"products"`
	Count      int                 `json:"count"`
}

type ProductPayload struct {
	Product              catalog.Product `json:"product"`
	SavingsPercent       int             `json:"savings_percent"`
	ConditionDescription string          `json:"condition_description"`
	Saved                bool            `json:"saved"`
}

// ProductNotFoundPayload is rendered instead of ProductPayload for an unknown id
type ProductNotFoundPayload struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

type ListingPayload struct {
	Draft       listing.Draft       `json:"draft"`
	Progress    float64             `json:"progress"`
	CO2Estimate float64             `json:"co2_estimate"`
	Categories  []string            `json:"categories"`
	Conditions  []catalog.Condition `json:"conditions"`
	MaxPhotos   int                 `json:"max_photos"`
}

type CartPayload struct {
	Items   []cart.CartItem   `json:"items"`
	Summary cart.Summary      `json:"summary"`
	Rules   cart.PricingRules `json:"rules"`
}

type DashboardPayload struct {
	User           user.User         `json:"user"`
	Initials       string            `json:"initials"`
	Listings       []catalog.Product `json:"listings"`
	Purchases      []catalog.Product `json:"purchases"`
	TotalEarnings  float64           `json:"total_earnings"`
	TotalCO2Impact float64           `json:"total_co2_impact"`
	TotalSavings   float64           `json:"total_savings"`
}
