package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/ecofinds/internal/domain/aggregate"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/infrastructure/store"
)

const (
	AggregateType = "Cart"

	// MaxQuantity caps a single cart line
	MaxQuantity = 999
)

var (
	ErrInvalidQuantity  = fmt.Errorf("quantity must be between 1 and %d", MaxQuantity)
	ErrInvalidProduct   = errors.New("product id is required")
	ErrInvalidPromoCode = errors.New("invalid promo code")
	ErrEmptyCart        = errors.New("cart is empty")
)

// CartItem pairs a product with a positive quantity
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart holds at most one item per product id, in insertion order
type Cart struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id"`
	Items        []CartItem `json:"items"`
	PromoApplied bool       `json:"promo_applied"`
	Version      int        `json:"version"`
}

// Customer identifies who is checking out
type Customer struct {
	ID    string
	Name  string
	Email string
}

// Receipt is returned by a mock checkout
type Receipt struct {
	CartID  string     `json:"cart_id"`
	Items   []CartItem `json:"items"`
	Summary Summary    `json:"summary"`
	Message string     `json:"message"`
}

type Service struct {
	eventStore store.EventStoreInterface
	rules      PricingRules
}

func NewService(es store.EventStoreInterface, rules PricingRules) *Service {
	return &Service{eventStore: es, rules: rules}
}

// GetCartID returns the cart ID owned by a session
func GetCartID(sessionID string) string {
	return "cart-" + sessionID
}

func (c *Cart) GetID() string   { return c.ID }
func (c *Cart) GetVersion() int { return c.Version }

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Item returns the cart line for a product
func (c *Cart) Item(productID string) (CartItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// Count is the total quantity across all lines
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// ApplyEvent applies a single event to the cart state
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventItemAdded:
		var data ItemAddedToCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.indexOf(data.Product.ID); i >= 0 {
			c.Items[i].Quantity += data.Quantity
			c.Items[i].Product = data.Product
		} else {
			c.Items = append(c.Items, CartItem{Product: data.Product, Quantity: data.Quantity})
		}
	case EventItemQuantityUpdated:
		var data ItemQuantityUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.indexOf(data.ProductID); i >= 0 {
			c.Items[i].Quantity = data.Quantity
		}
	case EventItemRemoved:
		var data ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.indexOf(data.ProductID); i >= 0 {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
		}
	case EventCartCleared:
		c.Items = nil
		c.PromoApplied = false
	case EventPromoCodeApplied:
		c.PromoApplied = true
	case EventCheckoutCompleted:
		// recorded for the notifier; the cart itself is unchanged
	}
	c.Version = event.Version
	return nil
}

// Load rebuilds a session's cart, using a snapshot if available
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	cartID := GetCartID(sessionID)
	return aggregate.Load(ctx, s.eventStore, cartID, func() *Cart {
		return &Cart{ID: cartID, SessionID: sessionID}
	})
}

// Summarize computes the price breakdown of a cart with the service's pricing rules
func (s *Service) Summarize(c *Cart) Summary {
	return s.rules.Summarize(c.Items, c.PromoApplied)
}

// Rules returns the pricing rules in effect
func (s *Service) Rules() PricingRules {
	return s.rules
}

// record appends an event, applies it to the loaded cart and snapshots when due
func (s *Service) record(ctx context.Context, c *Cart, eventType string, data any) (*Cart, error) {
	stored, err := s.eventStore.Append(ctx, c.ID, AggregateType, eventType, data)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEvent(*stored); err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", eventType, err)
	}

	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, c, AggregateType); err != nil {
		log.Printf("[Cart] Failed to create snapshot for cart %s: %v", c.ID, err)
	}
	return c, nil
}

// AddItem increments the product's line by quantity, or appends a new line
func (s *Service) AddItem(ctx context.Context, sessionID string, product catalog.Product, quantity int) (*Cart, error) {
	if product.ID == "" {
		return nil, ErrInvalidProduct
	}
	if quantity <= 0 || quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if item, ok := c.Item(product.ID); ok && item.Quantity > MaxQuantity-quantity {
		return nil, ErrInvalidQuantity
	}

	return s.record(ctx, c, EventItemAdded, ItemAddedToCart{
		CartID:    c.ID,
		SessionID: sessionID,
		Product:   product,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
}

// RemoveItem deletes the product's line. Removing an absent product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.indexOf(productID) < 0 {
		return c, nil
	}

	return s.record(ctx, c, EventItemRemoved, ItemRemovedFromCart{
		CartID:    c.ID,
		SessionID: sessionID,
		ProductID: productID,
		RemovedAt: time.Now(),
	})
}

// UpdateQuantity sets the line's quantity. A quantity <= 0 removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}
	if quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if productID == "" {
		return nil, ErrInvalidProduct
	}

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if item, ok := c.Item(productID); !ok || item.Quantity == quantity {
		return c, nil
	}

	return s.record(ctx, c, EventItemQuantityUpdated, ItemQuantityUpdated{
		CartID:    c.ID,
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	})
}

// Clear empties the cart and forgets any applied promo code
func (s *Service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 && !c.PromoApplied {
		return c, nil
	}

	return s.record(ctx, c, EventCartCleared, CartCleared{
		CartID:    c.ID,
		SessionID: sessionID,
		ClearedAt: time.Now(),
	})
}

// ApplyPromo enables the promo discount. Re-applying the valid code keeps a single discount.
func (s *Service) ApplyPromo(ctx context.Context, sessionID, code string) (*Cart, error) {
	if !s.rules.IsValidPromo(code) {
		return nil, ErrInvalidPromoCode
	}

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.PromoApplied {
		return c, nil
	}

	return s.record(ctx, c, EventPromoCodeApplied, PromoCodeApplied{
		CartID:    c.ID,
		SessionID: sessionID,
		Code:      s.rules.PromoCode,
		Rate:      s.rules.PromoRate,
		AppliedAt: time.Now(),
	})
}

// Checkout is a mock: it records the purchase and reports a receipt without touching the cart
func (s *Service) Checkout(ctx context.Context, sessionID string, customer Customer) (*Receipt, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	summary := s.Summarize(c)
	lines := make([]CheckoutLine, len(c.Items))
	for i, item := range c.Items {
		lines[i] = CheckoutLine{
			ProductID: item.Product.ID,
			Title:     item.Product.Title,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
			CO2Saved:  item.Product.CO2Saved,
		}
	}

	if _, err := s.record(ctx, c, EventCheckoutCompleted, CheckoutCompleted{
		CartID:       c.ID,
		SessionID:    sessionID,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Email:        customer.Email,
		Lines:        lines,
		Summary:      summary,
		CompletedAt:  time.Now(),
	}); err != nil {
		return nil, err
	}

	return &Receipt{
		CartID:  c.ID,
		Items:   c.Items,
		Summary: summary,
		Message: fmt.Sprintf("Checkout successful! Total: $%.2f, CO₂ Impact: %.1fkg saved", summary.Total, summary.CO2Saved),
	}, nil
}
