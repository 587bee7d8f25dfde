package cart

import "strings"

// PricingRules holds the shipping and promo parameters used by cart math
type PricingRules struct {
	FreeShippingThreshold float64 `yaml:"free_shipping_threshold" json:"free_shipping_threshold"`
	FlatShippingFee       float64 `yaml:"flat_shipping_fee" json:"flat_shipping_fee"`
	PromoCode             string  `yaml:"promo_code" json:"-"`
	PromoRate             float64 `yaml:"promo_rate" json:"promo_rate"`
}

// DefaultPricingRules: free shipping above 50, otherwise 5.99; ECO10 takes 10% off the subtotal.
func DefaultPricingRules() PricingRules {
	return PricingRules{
		FreeShippingThreshold: 50,
		FlatShippingFee:       5.99,
		PromoCode:             "ECO10",
		PromoRate:             0.10,
	}
}

// Summary is the computed price breakdown of a cart
type Summary struct {
	ItemCount    int     `json:"item_count"`
	LineCount    int     `json:"line_count"` // distinct items saved from waste
	Subtotal     float64 `json:"subtotal"`
	Shipping     float64 `json:"shipping"`
	FreeShipping bool    `json:"free_shipping"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
	CO2Saved     float64 `json:"co2_saved"`
	PromoApplied bool    `json:"promo_applied"`
}

// IsValidPromo compares case-insensitively, without trimming
func (r PricingRules) IsValidPromo(code string) bool {
	return r.PromoCode != "" && strings.EqualFold(code, r.PromoCode)
}

func (r PricingRules) Shipping(subtotal float64) float64 {
	if subtotal > r.FreeShippingThreshold {
		return 0
	}
	return r.FlatShippingFee
}

func (r PricingRules) PromoDiscount(subtotal float64, applied bool) float64 {
	if !applied {
		return 0
	}
	return subtotal * r.PromoRate
}

// Total is not floored at zero.
func Total(subtotal, shipping, discount float64) float64 {
	return subtotal + shipping - discount
}

func Subtotal(items []CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Product.Price * float64(item.Quantity)
	}
	return sum
}

func TotalCO2Saved(items []CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Product.CO2Saved * float64(item.Quantity)
	}
	return sum
}

// Summarize computes the full breakdown for the given items
func (r PricingRules) Summarize(items []CartItem, promoApplied bool) Summary {
	subtotal := Subtotal(items)
	shipping := r.Shipping(subtotal)
	discount := r.PromoDiscount(subtotal, promoApplied)

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return Summary{
		ItemCount:    count,
		LineCount:    len(items),
		Subtotal:     subtotal,
		Shipping:     shipping,
		FreeShipping: shipping == 0,
		Discount:     discount,
		Total:        Total(subtotal, shipping, discount),
		CO2Saved:     TotalCO2Saved(items),
		PromoApplied: promoApplied,
	}
}
