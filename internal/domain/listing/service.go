package listing

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/infrastructure/store"
	"github.com/google/uuid"
)

const (
	AggregateType = "Listing"

	EventListingSubmitted = "ListingSubmitted"

	SubmittedMessage = "Product listed successfully! 🌱"
)

// ListingSubmitted records a finished draft. Nothing is added to the catalog.
type ListingSubmitted struct {
	ListingID     string            `json:"listing_id"`
	SessionID     string            `json:"session_id"`
	SellerID      string            `json:"seller_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Condition     catalog.Condition `json:"condition"`
	Price         float64           `json:"price"`
	OriginalPrice *float64          `json:"original_price,omitempty"`
	Images        []string          `json:"images"`
	Location      string            `json:"location"`
	CO2Estimate   float64           `json:"co2_estimate"`
	SubmittedAt   time.Time         `json:"submitted_at"`
}

// Submission is what a successful submit reports back
type Submission struct {
	ListingID string `json:"listing_id"`
	Message   string `json:"message"`
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// GetStreamID returns the stream holding a session's submitted listings
func GetStreamID(sessionID string) string {
	return "listings-" + sessionID
}

// Submit records the draft as a listing. The draft must be on the last step with a positive price.
func (s *Service) Submit(ctx context.Context, sessionID, sellerID string, d *Draft) (*Submission, error) {
	if d.Step != LastStep {
		return nil, ErrNotReady
	}
	price, err := d.ParsedPrice()
	if err != nil {
		return nil, err
	}

	var original *float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(d.OriginalPrice), 64); err == nil && v > 0 {
		original = &v
	}

	listingID := uuid.New().String()
	event := ListingSubmitted{
		ListingID:     listingID,
		SessionID:     sessionID,
		SellerID:      sellerID,
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		Condition:     d.Condition,
		Price:         price,
		OriginalPrice: original,
		Images:        append([]string(nil), d.Images...),
		Location:      d.Location,
		CO2Estimate:   CO2Estimate(price, d.Category),
		SubmittedAt:   time.Now(),
	}

	if _, err := s.eventStore.Append(ctx, GetStreamID(sessionID), AggregateType, EventListingSubmitted, event); err != nil {
		return nil, err
	}
	log.Printf("[Listing] Listing %s submitted by %s: %q at %.2f", listingID, sellerID, d.Title, price)

	return &Submission{ListingID: listingID, Message: SubmittedMessage}, nil
}
