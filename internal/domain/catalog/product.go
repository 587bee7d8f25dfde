package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidCondition = errors.New("condition must be Excellent, Good or Fair")
	ErrInvalidProduct   = errors.New("invalid product")
)

// Condition grades a secondhand item
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
)

// Conditions lists every grade in display order
var Conditions = []Condition{ConditionExcellent, ConditionGood, ConditionFair}

// ConditionDescriptions is shown next to each grade in the listing flow
var ConditionDescriptions = map[Condition]string{
	ConditionExcellent: "Like new, minimal wear",
	ConditionGood:      "Minor signs of use",
	ConditionFair:      "Noticeable wear but functional",
}

// ParseCondition accepts a grade in any letter casing
func ParseCondition(s string) (Condition, error) {
	for _, c := range Conditions {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", ErrInvalidCondition
}

// Seller is the seller summary embedded in every product
type Seller struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar,omitempty"`
	Verified bool    `json:"verified"`
	Rating   float64 `json:"rating"`
}

type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Condition     Condition `json:"condition"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Images        []string  `json:"images"`
	Seller        Seller    `json:"seller"`
	Location      string    `json:"location"`
	CO2Saved      float64   `json:"co2_saved"`
	CreatedAt     time.Time `json:"created_at"`
	Saved         bool      `json:"saved,omitempty"`
}

// SavingsPercent is the whole-number discount against the original price, 0 when unknown
func (p Product) SavingsPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}

// Validate checks the invariants every catalog entry must hold
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidProduct)
	case p.Price < 0 || math.IsNaN(p.Price):
		return fmt.Errorf("%w %s: negative price", ErrInvalidProduct, p.ID)
	case p.CO2Saved < 0 || math.IsNaN(p.CO2Saved):
		return fmt.Errorf("%w %s: negative co2Saved", ErrInvalidProduct, p.ID)
	}
	if _, err := ParseCondition(string(p.Condition)); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidProduct, p.ID, err)
	}
	return nil
}

// ValidProducts splits products into those that pass Validate and the errors for the rest
func ValidProducts(products []Product) ([]Product, []error) {
	valid := make([]Product, 0, len(products))
	var rejected []error
	for _, p := range products {
		if err := p.Validate(); err != nil {
			rejected = append(rejected, err)
			continue
		}
		valid = append(valid, p)
	}
	return valid, rejected
}

// Catalog is an immutable product snapshot shared by every session
type Catalog struct {
	products []Product
	byID     map[string]int
}

// NewCatalog snapshots products. Later duplicates of an id are ignored.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Get returns a copy of the product with the given id
func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// All returns the products in catalog order. The slice is a copy.
func (c *Catalog) All() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}
