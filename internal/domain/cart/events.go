package cart

import (
	"time"

	"github.com/example/ecofinds/internal/domain/catalog"
)

const (
	EventItemAdded           = "ItemAddedToCart"
	EventItemQuantityUpdated = "ItemQuantityUpdated"
	EventItemRemoved         = "ItemRemovedFromCart"
	EventCartCleared         = "CartCleared"
	EventPromoCodeApplied    = "PromoCodeApplied"
	EventCheckoutCompleted   = "CheckoutCompleted"
)

type ItemAddedToCart struct {
	CartID    string          `json:"cart_id"`
	SessionID string          `json:"session_id"`
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

type ItemQuantityUpdated struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type PromoCodeApplied struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	Code      string    `json:"code"`
	Rate      float64   `json:"rate"`
	AppliedAt time.Time `json:"applied_at"`
}

// CheckoutLine is one purchased line in a checkout event
type CheckoutLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	CO2Saved  float64 `json:"co2_saved"`
}

// CheckoutCompleted carries everything the notifier needs to send a receipt
type CheckoutCompleted struct {
	CartID       string         `json:"cart_id"`
	SessionID    string         `json:"session_id"`
	CustomerID   string         `json:"customer_id"`
	CustomerName string         `json:"customer_name"`
	Email        string         `json:"email"`
	Lines        []CheckoutLine `json:"lines"`
	Summary      Summary        `json:"summary"`
	CompletedAt  time.Time      `json:"completed_at"`
}
