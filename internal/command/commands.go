package command

import (
	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/review"
	"github.com/example/ecofinds/internal/session"
)

// Auth Commands
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Signup struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Navigation Commands
type Navigate struct {
	Screen string `json:"screen"`
}

type OpenProduct struct {
	ProductID string `json:"product_id"`
}

type SelectHomeCategory struct {
	Category string `json:"category"`
}

// UpdateBrowse edits the browse controls; nil fields are left unchanged
type UpdateBrowse struct {
	Query        *string  `json:"query"`
	Category     *string  `json:"category"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	Conditions   []string `json:"conditions"`
	VerifiedOnly *bool    `json:"verified_only"`
	Sort         *string  `json:"sort"`
}

type ToggleSaved struct {
	ProductID string `json:"product_id"`
}

type SubmitReview struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Cart Commands
type AddToCart struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartQuantity struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	ProductID string `json:"product_id"`
}

type ApplyPromo struct {
	Code string `json:"code"`
}

// Listing Commands
type UpdateListing = listing.Update

type RemovePhoto struct {
	Index int `json:"index"`
}

// Result is the outcome of a command: the re-rendered view plus whatever the intent reported
type Result struct {
	View       session.View        `json:"view"`
	Token      string              `json:"token,omitempty"`
	Receipt    *cart.Receipt       `json:"receipt,omitempty"`
	Submission *listing.Submission `json:"submission,omitempty"`
	Review     *review.Review      `json:"review,omitempty"`
	Saved      *bool               `json:"saved,omitempty"`
	Uploaded   *int                `json:"uploaded,omitempty"`
}
