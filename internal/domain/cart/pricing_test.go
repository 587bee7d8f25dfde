package cart

import (
	"testing"

	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func line(id string, price, co2 float64, qty int) CartItem {
	return CartItem{Product: catalog.Product{ID: id, Price: price, CO2Saved: co2}, Quantity: qty}
}

func TestSummarize_BelowFreeShipping(t *testing.T) {
	s := DefaultPricingRules().Summarize([]CartItem{line("1", 45, 2.5, 1)}, false)

	assert.InDelta(t, 45, s.Subtotal, 1e-9)
	assert.InDelta(t, 5.99, s.Shipping, 1e-9)
	assert.False(t, s.FreeShipping)
	assert.InDelta(t, 0, s.Discount, 1e-9)
	assert.InDelta(t, 50.99, s.Total, 1e-9)
	assert.InDelta(t, 2.5, s.CO2Saved, 1e-9)
	assert.Equal(t, 1, s.ItemCount)
	assert.Equal(t, 1, s.LineCount)
}

func TestSummarize_TwoLinesBelowThreshold(t *testing.T) {
	items := []CartItem{line("1", 10, 1, 2), line("2", 25, 1, 1)}

	s := DefaultPricingRules().Summarize(items, false)

	assert.InDelta(t, 45, s.Subtotal, 1e-9)
	assert.InDelta(t, 5.99, s.Shipping, 1e-9)
	assert.InDelta(t, 50.99, s.Total, 1e-9)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, 2, s.LineCount)
}

func TestSummarize_FreeShippingWithPromo(t *testing.T) {
	items := []CartItem{line("1", 45, 2.5, 1), line("2", 89, 3.2, 1)}

	s := DefaultPricingRules().Summarize(items, true)

	assert.InDelta(t, 134, s.Subtotal, 1e-9)
	assert.InDelta(t, 0, s.Shipping, 1e-9)
	assert.True(t, s.FreeShipping)
	assert.InDelta(t, 13.4, s.Discount, 1e-9)
	assert.InDelta(t, 120.6, s.Total, 1e-9)
	assert.InDelta(t, 5.7, s.CO2Saved, 1e-9)
}

func TestShipping_ThresholdIsExclusive(t *testing.T) {
	rules := DefaultPricingRules()

	assert.InDelta(t, 5.99, rules.Shipping(50), 1e-9)
	assert.InDelta(t, 0, rules.Shipping(50.01), 1e-9)
	assert.InDelta(t, 5.99, rules.Shipping(0), 1e-9)
}

func TestSummarize_EmptyCart(t *testing.T) {
	s := DefaultPricingRules().Summarize(nil, false)

	assert.Equal(t, 0, s.ItemCount)
	assert.InDelta(t, 0, s.Subtotal, 1e-9)
	assert.InDelta(t, 5.99, s.Total, 1e-9)
}

func TestSummarize_QuantitiesMultiply(t *testing.T) {
	s := DefaultPricingRules().Summarize([]CartItem{line("1", 12.5, 1.5, 3)}, false)

	assert.InDelta(t, 37.5, s.Subtotal, 1e-9)
	assert.InDelta(t, 4.5, s.CO2Saved, 1e-9)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, 1, s.LineCount)
}

func TestSummarize_OrderIndependent(t *testing.T) {
	a := []CartItem{line("1", 45, 2.5, 2), line("2", 89, 3.2, 1), line("3", 120, 12.8, 1)}
	b := []CartItem{a[2], a[0], a[1]}

	rules := DefaultPricingRules()
	assert.InDelta(t, rules.Summarize(a, true).Total, rules.Summarize(b, true).Total, 1e-9)
	assert.InDelta(t, rules.Summarize(a, true).CO2Saved, rules.Summarize(b, true).CO2Saved, 1e-9)
}

func TestIsValidPromo(t *testing.T) {
	rules := DefaultPricingRules()

	assert.True(t, rules.IsValidPromo("ECO10"))
	assert.True(t, rules.IsValidPromo("eco10"))
	assert.False(t, rules.IsValidPromo("ECO10 "))
	assert.False(t, rules.IsValidPromo(""))
	assert.False(t, PricingRules{}.IsValidPromo(""))
}

func TestTotal_NotClamped(t *testing.T) {
	assert.InDelta(t, -5, Total(10, 0, 15), 1e-9)
}

func TestSummarize_CustomRules(t *testing.T) {
	rules := PricingRules{FreeShippingThreshold: 100, FlatShippingFee: 7, PromoCode: "GREEN", PromoRate: 0.25}

	s := rules.Summarize([]CartItem{line("1", 80, 1, 1)}, true)

	assert.InDelta(t, 7, s.Shipping, 1e-9)
	assert.InDelta(t, 20, s.Discount, 1e-9)
	assert.InDelta(t, 67, s.Total, 1e-9)
}
