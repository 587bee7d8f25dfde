package listing

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/example/ecofinds/internal/domain/catalog"
)

const (
	FirstStep = 1
	LastStep  = 3
	MaxPhotos = 3
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCategoryRequired    = errors.New("category is required")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrPhotoRequired       = errors.New("at least one photo is required")
	ErrConditionRequired   = errors.New("condition is required")
	ErrPhotoIndex          = errors.New("photo index out of range")
	ErrInvalidPrice        = errors.New("price must be a positive number")
	ErrNotReady            = errors.New("listing is not on the pricing step")
)

// mockPhotos stand in for an upload
var mockPhotos = []string{
	"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400",
	"https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=400",
}

var co2Multipliers = map[string]float64{
	"Electronics":        15,
	"Fashion":            3,
	"Furniture":          8,
	"Books":              1,
	"Sports":             4,
	"Home & Garden":      5,
	"Toys":               2,
	"Art & Collectibles": 1,
}

const defaultCO2Multiplier = 2

// Draft is the in-progress listing form. Prices are kept as typed.
type Draft struct {
	Step          int               `json:"step"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Condition     catalog.Condition `json:"condition"`
	Price         string            `json:"price"`
	OriginalPrice string            `json:"original_price"`
	Images        []string          `json:"images"`
	Location      string            `json:"location"`
}

// Update carries the form fields being edited; nil fields are left alone
type Update struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Condition     *string `json:"condition"`
	Price         *string `json:"price"`
	OriginalPrice *string `json:"original_price"`
	Location      *string `json:"location"`
}

func NewDraft() *Draft {
	return &Draft{Step: FirstStep, Images: []string{}}
}

// Apply edits the draft. Category and condition must be known values or empty.
func (d *Draft) Apply(u Update) error {
	next := *d

	if u.Category != nil && *u.Category != "" {
		if !slices.Contains(catalog.ListingCategories, *u.Category) {
			return ErrUnknownCategory
		}
	}
	if u.Condition != nil {
		if strings.TrimSpace(*u.Condition) == "" {
			next.Condition = ""
		} else {
			c, err := catalog.ParseCondition(*u.Condition)
			if err != nil {
				return err
			}
			next.Condition = c
		}
	}

	if u.Title != nil {
		next.Title = *u.Title
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	if u.Category != nil {
		next.Category = *u.Category
	}
	if u.Price != nil {
		next.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		next.OriginalPrice = *u.OriginalPrice
	}
	if u.Location != nil {
		next.Location = *u.Location
	}

	*d = next
	return nil
}

// UploadPhotos appends the canned photos, never exceeding MaxPhotos
func (d *Draft) UploadPhotos() int {
	room := MaxPhotos - len(d.Images)
	if room <= 0 {
		return 0
	}
	add := mockPhotos[:min(room, len(mockPhotos))]
	d.Images = append(d.Images, add...)
	return len(add)
}

func (d *Draft) RemovePhoto(index int) error {
	if index < 0 || index >= len(d.Images) {
		return ErrPhotoIndex
	}
	d.Images = slices.Delete(slices.Clone(d.Images), index, index+1)
	return nil
}

// Validate reports what blocks leaving the current step
func (d *Draft) Validate() error {
	switch d.Step {
	case 1:
		if strings.TrimSpace(d.Title) == "" {
			return ErrTitleRequired
		}
		if strings.TrimSpace(d.Description) == "" {
			return ErrDescriptionRequired
		}
		if d.Category == "" {
			return ErrCategoryRequired
		}
	case 2:
		if len(d.Images) == 0 {
			return ErrPhotoRequired
		}
		if d.Condition == "" {
			return ErrConditionRequired
		}
	case 3:
		if _, err := d.ParsedPrice(); err != nil {
			return err
		}
	}
	return nil
}

// Next advances one step once the current step is complete. No-op on the last step.
func (d *Draft) Next() error {
	if d.Step >= LastStep {
		return nil
	}
	if err := d.Validate(); err != nil {
		return err
	}
	d.Step++
	return nil
}

// Prev goes back one step. No-op on the first step.
func (d *Draft) Prev() {
	if d.Step > FirstStep {
		d.Step--
	}
}

// Progress is the completion percentage shown above the form
func (d *Draft) Progress() float64 {
	return float64(d.Step) / LastStep * 100
}

// ParsedPrice returns the asking price, which must be a positive number
func (d *Draft) ParsedPrice() (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if err != nil || price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	return price, nil
}

// CO2Estimate is the live estimate for the draft; an unparsable price counts as 0
func (d *Draft) CO2Estimate() float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}
	return CO2Estimate(price, d.Category)
}

// CO2Estimate = round(price/100 * category multiplier) to one decimal
func CO2Estimate(price float64, category string) float64 {
	mult, ok := co2Multipliers[category]
	if !ok {
		mult = defaultCO2Multiplier
	}
	return math.Round(price/100*mult*10) / 10
}
