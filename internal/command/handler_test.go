package command

import (
	"context"
	"testing"
	"time"

	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/filter"
	"github.com/example/ecofinds/internal/infrastructure/store/mocks"
	"github.com/example/ecofinds/internal/query"
	"github.com/example/ecofinds/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	queries := query.NewHandler(catalog.NewCatalog(catalog.MockProducts()))
	registry := session.NewRegistry(session.Services{
		Users:    user.NewService(eventStore),
		Carts:    cart.NewService(eventStore, cart.DefaultPricingRules()),
		Listings: listing.NewService(eventStore),
		Queries:  queries,
	}, eventStore, time.Hour)
	return NewHandler(registry, queries), eventStore
}

func newLoggedInSession(t *testing.T, h *Handler) string {
	t.Helper()
	ctx := context.Background()
	id, _ := h.CreateSession(ctx)
	_, err := h.Login(ctx, id, Login{Email: "alex@example.com", Password: "pw"})
	require.NoError(t, err)
	return id
}

func str(s string) *string { return &s }

// ============================================
// Session Tests
// ============================================

func TestHandler_CreateSession_StartsOnAuth(t *testing.T) {
	h, _ := newTestHandler()

	id, res := h.CreateSession(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, session.ScreenAuth, res.View.Screen)
}

func TestHandler_UnknownSession(t *testing.T) {
	h, _ := newTestHandler()

	_, err := h.Render(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestHandler_Navigate(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)

	res, err := h.Navigate(context.Background(), id, Navigate{Screen: "Cart"})
	require.NoError(t, err)
	assert.Equal(t, session.ScreenCart, res.View.Screen)

	_, err = h.Navigate(context.Background(), id, Navigate{Screen: "settings"})
	assert.ErrorIs(t, err, session.ErrUnknownScreen)
}

// ============================================
// Cart Tests
// ============================================

func TestHandler_AddToCart(t *testing.T) {
	h, eventStore := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()

	res, err := h.AddToCart(ctx, id, AddToCart{ProductID: "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.View.CartCount)

	res, err = h.AddToCart(ctx, id, AddToCart{ProductID: "1", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.View.CartCount)
	assert.Contains(t, eventStore.EventTypes(), cart.EventItemAdded)
}

func TestHandler_AddToCart_Errors(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()

	_, err := h.AddToCart(ctx, id, AddToCart{ProductID: "nope"})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	_, err = h.AddToCart(ctx, id, AddToCart{ProductID: "1", Quantity: -1})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestHandler_CartSummaryAndCheckout(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()

	_, err := h.Checkout(ctx, id)
	assert.ErrorIs(t, err, cart.ErrEmptyCart)

	_, err = h.AddToCart(ctx, id, AddToCart{ProductID: "4"})
	require.NoError(t, err)

	payload, err := h.Cart(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 50.99, payload.Summary.Total, 1e-9)

	_, err = h.ApplyPromo(ctx, id, ApplyPromo{Code: "bogus"})
	assert.ErrorIs(t, err, cart.ErrInvalidPromoCode)

	res, err := h.Checkout(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, res.Receipt)
	assert.InDelta(t, 3.2, res.Receipt.Summary.CO2Saved, 1e-9)
}

func TestHandler_UpdateQuantityToZeroRemoves(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()
	_, err := h.AddToCart(ctx, id, AddToCart{ProductID: "2", Quantity: 2})
	require.NoError(t, err)

	res, err := h.UpdateCartQuantity(ctx, id, UpdateCartQuantity{ProductID: "2", Quantity: 0})

	require.NoError(t, err)
	assert.Equal(t, 0, res.View.CartCount)
}

// ============================================
// Browse Tests
// ============================================

func TestHandler_UpdateBrowse(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()
	_, err := h.Navigate(ctx, id, Navigate{Screen: "browse"})
	require.NoError(t, err)

	maxPrice := 100.0
	res, err := h.UpdateBrowse(ctx, id, UpdateBrowse{
		Query:      str("o"),
		MaxPrice:   &maxPrice,
		Conditions: []string{"excellent", "fair"},
		Sort:       str("price-high"),
	})
	require.NoError(t, err)

	payload := res.View.Payload.(query.BrowsePayload)
	require.Equal(t, 2, payload.Count)
	assert.Equal(t, "1", payload.Products[0].ID)
	assert.Equal(t, "4", payload.Products[1].ID)
	assert.Equal(t, filter.SortPriceHigh, payload.Criteria.Sort)
}

func TestHandler_UpdateBrowse_Invalid(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()
	lo, hi := 500.0, 100.0

	_, err := h.UpdateBrowse(ctx, id, UpdateBrowse{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, ErrInvalidPriceRange)

	_, err = h.UpdateBrowse(ctx, id, UpdateBrowse{Conditions: []string{"Broken"}})
	assert.ErrorIs(t, err, catalog.ErrInvalidCondition)
}

func TestHandler_ListProducts_DoesNotChangeSession(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()

	payload, err := h.ListProducts(ctx, id, UpdateBrowse{Category: str("Fashion"), Sort: str("price-low")})
	require.NoError(t, err)
	assert.Equal(t, 2, payload.Count)
	assert.Equal(t, "4", payload.Products[0].ID)

	payload, err = h.ListProducts(ctx, id, UpdateBrowse{})
	require.NoError(t, err)
	assert.Equal(t, 4, payload.Count)
}

func TestHandler_ToggleSaved(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)

	res, err := h.ToggleSaved(context.Background(), id, ToggleSaved{ProductID: "2"})

	require.NoError(t, err)
	require.NotNil(t, res.Saved)
	assert.False(t, *res.Saved)
}

// ============================================
// Listing Tests
// ============================================

func TestHandler_ListingFlow(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)
	ctx := context.Background()

	_, err := h.Navigate(ctx, id, Navigate{Screen: "add"})
	require.NoError(t, err)

	_, err = h.NextStep(ctx, id)
	assert.ErrorIs(t, err, listing.ErrTitleRequired)

	_, err = h.UpdateListing(ctx, id, UpdateListing{Title: str("Bookshelf"), Description: str("Pine"), Category: str("Furniture")})
	require.NoError(t, err)
	_, err = h.NextStep(ctx, id)
	require.NoError(t, err)

	res, err := h.UploadPhotos(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, *res.Uploaded)

	res, err = h.RemovePhoto(ctx, id, RemovePhoto{Index: 1})
	require.NoError(t, err)
	assert.Len(t, res.View.Payload.(query.ListingPayload).Draft.Images, 1)

	_, err = h.UpdateListing(ctx, id, UpdateListing{Condition: str("Good"), Price: str("60")})
	require.NoError(t, err)
	res, err = h.NextStep(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 4.8, res.View.Payload.(query.ListingPayload).CO2Estimate, 1e-9)

	res, err = h.PrevStep(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, res.View.Payload.(query.ListingPayload).Draft.Step)
	_, err = h.NextStep(ctx, id)
	require.NoError(t, err)

	res, err = h.SubmitListing(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.SubmittedMessage, res.Submission.Message)
	assert.Equal(t, session.ScreenHome, res.View.Screen)
}

func TestHandler_SubmitReview(t *testing.T) {
	h, _ := newTestHandler()
	id := newLoggedInSession(t, h)

	res, err := h.SubmitReview(context.Background(), id, SubmitReview{ProductID: "3", Rating: 4, Comment: "Sturdy"})

	require.NoError(t, err)
	assert.Equal(t, 4, res.Review.Rating)
}
