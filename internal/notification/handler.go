package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/email"
	"github.com/example/ecofinds/internal/infrastructure/store"
)

// ReceiptSender delivers a checkout receipt
type ReceiptSender interface {
	SendReceipt(to string, r email.Receipt) error
}

// Handler processes events for sending notifications
type Handler struct {
	sender ReceiptSender
}

// NewHandler creates a new notification handler
func NewHandler(sender ReceiptSender) *Handler {
	return &Handler{sender: sender}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, event store.Event) error {
	// Only process CheckoutCompleted events
	if event.EventType != cart.EventCheckoutCompleted {
		return nil
	}
	return h.handleCheckoutCompleted(event)
}

func (h *Handler) handleCheckoutCompleted(event store.Event) error {
	var e cart.CheckoutCompleted
	if err := json.Unmarshal(event.Data, &e); err != nil {
		return fmt.Errorf("failed to unmarshal CheckoutCompleted event: %w", err)
	}

	log.Printf("[Notifier] Processing CheckoutCompleted for cart %s, customer %s", e.CartID, e.CustomerID)

	if e.Email == "" {
		log.Printf("[Notifier] No email for customer %s, skipping receipt", e.CustomerID)
		return nil
	}

	lines := make([]email.ReceiptLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = email.ReceiptLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			Price:     l.Price,
			CO2Saved:  l.CO2Saved,
		}
	}

	receipt := email.Receipt{
		Reference:    event.ID,
		CustomerName: e.CustomerName,
		Lines:        lines,
		Subtotal:     e.Summary.Subtotal,
		Shipping:     e.Summary.Shipping,
		FreeShipping: e.Summary.FreeShipping,
		Discount:     e.Summary.Discount,
		Total:        e.Summary.Total,
		CO2Saved:     e.Summary.CO2Saved,
	}

	if err := h.sender.SendReceipt(e.Email, receipt); err != nil {
		return fmt.Errorf("failed to send receipt to %s: %w", e.Email, err)
	}

	log.Printf("[Notifier] Receipt sent to %s for cart %s", e.Email, e.CartID)
	return nil
}
