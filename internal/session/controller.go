package session

import (
	"context"
	"errors"
	"log"
	"maps"
	"slices"
	"sync"

	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/review"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/filter"
	"github.com/example/ecofinds/internal/query"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrUnknownCategory = errors.New("unknown category")
)

// Services are the domain services shared by every controller
type Services struct {
	Users    *user.Service
	Carts    *cart.Service
	Listings *listing.Service
	Queries  *query.Handler
}

// Filters are the browse-screen controls besides search text and category.
// Nil fields are left unchanged.
type Filters struct {
	Price        *filter.PriceRange  `json:"price"`
	Conditions   []catalog.Condition `json:"conditions"`
	VerifiedOnly *bool               `json:"verified_only"`
	Sort         *filter.SortKey     `json:"sort"`
}

// Controller owns the page state of one session. Every intent holds mu for
// its whole transition. The signed-in user lives in the session's identity
// stream and the cart in its cart stream; both are read back on demand.
type Controller struct {
	mu  sync.Mutex
	id  string
	svc Services

	screen            Screen
	previous          Screen
	selectedProductID string
	browse            filter.Criteria
	homeCategory      string
	saved             map[string]bool
	draft             *listing.Draft
}

func newController(id string, svc Services) *Controller {
	saved := make(map[string]bool)
	for _, p := range svc.Queries.Catalog().All() {
		if p.Saved {
			saved[p.ID] = true
		}
	}

	price := filter.DefaultPriceRange
	return &Controller{
		id:       id,
		svc:      svc,
		screen:   ScreenAuth,
		previous: ScreenHome,
		browse:   filter.Criteria{Category: "all", Price: &price, Sort: filter.SortNewest},
		saved:    saved,
		draft:    listing.NewDraft(),
	}
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) moveTo(screen Screen) {
	if screen != c.screen {
		c.previous = c.screen
	}
	c.screen = screen
}

// ============================================
// Auth
// ============================================

func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.svc.Users.Login(ctx, c.id, email, password)
	if err != nil {
		return err
	}
	c.moveTo(ScreenHome)
	log.Printf("[Session] %s logged in as %s", c.id, u.Email)
	return nil
}

func (c *Controller) Signup(ctx context.Context, name, email, password, confirmPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.svc.Users.Signup(ctx, c.id, name, email, password, confirmPassword)
	if err != nil {
		return err
	}
	c.moveTo(ScreenHome)
	log.Printf("[Session] %s signed up as %s", c.id, u.Email)
	return nil
}

// Logout clears the cart, then the user, and returns to the auth screen.
// On error the session stays signed in.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.svc.Users.Current(ctx, c.id)
	if err != nil {
		return err
	}
	if _, err := c.svc.Carts.Clear(ctx, c.id); err != nil {
		return err
	}
	if u != nil {
		if err := c.svc.Users.Logout(ctx, c.id, u.ID); err != nil {
			return err
		}
	}
	c.moveTo(ScreenAuth)
	return nil
}

// signedIn returns the current user or ErrNotLoggedIn. Callers hold mu.
func (c *Controller) signedIn(ctx context.Context) (*user.User, error) {
	u, err := c.svc.Users.Current(ctx, c.id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// ============================================
// Navigation and browse state
// ============================================

// Navigate switches screens unconditionally. Entering add starts a fresh draft.
func (c *Controller) Navigate(screen Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if screen == ScreenAdd && c.screen != ScreenAdd {
		c.draft = listing.NewDraft()
	}
	c.moveTo(screen)
}

// NavigateToProduct does not check that the product exists
func (c *Controller) NavigateToProduct(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedProductID = id
	c.moveTo(ScreenProduct)
}

func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.browse.Search = text
}

func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if category == "" {
		category = "all"
	}
	c.browse.Category = category
}

func (c *Controller) SetFilters(f Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.Price != nil {
		price := *f.Price
		c.browse.Price = &price
	}
	if f.Conditions != nil {
		c.browse.Conditions = slices.Clone(f.Conditions)
	}
	if f.VerifiedOnly != nil {
		c.browse.VerifiedOnly = *f.VerifiedOnly
	}
	if f.Sort != nil {
		c.browse.Sort = filter.ParseSortKey(string(*f.Sort))
	}
}

// Criteria returns a copy of the browse criteria
func (c *Controller) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()

	criteria := c.browse
	criteria.Conditions = slices.Clone(c.browse.Conditions)
	if c.browse.Price != nil {
		price := *c.browse.Price
		criteria.Price = &price
	}
	return criteria
}

// SelectHomeCategory picks a home category chip; empty clears it
func (c *Controller) SelectHomeCategory(category string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if category != "" && !slices.Contains(catalog.HomeCategories, category) {
		return ErrUnknownCategory
	}
	c.homeCategory = category
	return nil
}

// ToggleSaved flips the saved flag of a catalog product and returns the new value
func (c *Controller) ToggleSaved(productID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.svc.Queries.Catalog().Get(productID); !ok {
		return false, catalog.ErrProductNotFound
	}
	if c.saved[productID] {
		delete(c.saved, productID)
		return false, nil
	}
	c.saved[productID] = true
	return true, nil
}

// SavedProducts returns a copy of the saved set
func (c *Controller) SavedProducts() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.saved)
}

// ============================================
// Cart
// ============================================

func (c *Controller) AddToCart(ctx context.Context, product catalog.Product, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.svc.Carts.AddItem(ctx, c.id, product, quantity)
	return err
}

func (c *Controller) RemoveFromCart(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.svc.Carts.RemoveItem(ctx, c.id, productID)
	return err
}

// UpdateCartQuantity sets the quantity absolutely; quantity <= 0 removes the item
func (c *Controller) UpdateCartQuantity(ctx context.Context, productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.svc.Carts.UpdateQuantity(ctx, c.id, productID, quantity)
	return err
}

func (c *Controller) ApplyPromo(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.svc.Carts.ApplyPromo(ctx, c.id, code)
	return err
}

func (c *Controller) Checkout(ctx context.Context) (*cart.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := c.svc.Carts.Checkout(ctx, c.id, cart.Customer{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Session] %s checked out %d items, total %.2f", c.id, receipt.Summary.ItemCount, receipt.Summary.Total)
	return receipt, nil
}

// CartPayload returns the cart screen payload regardless of the current screen
func (c *Controller) CartPayload(ctx context.Context) (query.CartPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	crt, err := c.svc.Carts.Load(ctx, c.id)
	if err != nil {
		return query.CartPayload{}, err
	}
	return c.svc.Queries.Cart(crt, c.svc.Carts.Summarize(crt), c.svc.Carts.Rules()), nil
}

// ============================================
// Listing
// ============================================

func (c *Controller) UpdateListing(u listing.Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Apply(u)
}

func (c *Controller) UploadPhotos() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.UploadPhotos()
}

func (c *Controller) RemovePhoto(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.RemovePhoto(index)
}

func (c *Controller) NextStep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Next()
}

func (c *Controller) PrevStep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Prev()
}

// SubmitListing records the draft and returns to the screen that was open before add
func (c *Controller) SubmitListing(ctx context.Context) (*listing.Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	sub, err := c.svc.Listings.Submit(ctx, c.id, u.ID, c.draft)
	if err != nil {
		return nil, err
	}

	c.draft = listing.NewDraft()
	back := c.previous
	if back == "" || back == ScreenAdd || back == ScreenAuth {
		back = ScreenHome
	}
	c.moveTo(back)
	return sub, nil
}

// ============================================
// Reviews
// ============================================

func (c *Controller) SubmitReview(ctx context.Context, productID string, form review.Form) (*review.Review, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := c.svc.Queries.Catalog().Get(productID); !ok {
		return nil, catalog.ErrProductNotFound
	}
	return review.Submit(productID, u.Name, form)
}

// ============================================
// Rendering
// ============================================

// Render resolves the current view. Without a user every screen renders as auth.
func (c *Controller) Render(ctx context.Context) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := c.svc.Users.Current(ctx, c.id)
	if err != nil {
		log.Printf("[Session] Failed to load identity for %s: %v", c.id, err)
		u = nil
	}

	screen := c.screen
	if u == nil && screen != ScreenAuth {
		screen = ScreenAuth
	}

	crt, err := c.svc.Carts.Load(ctx, c.id)
	if err != nil {
		log.Printf("[Session] Failed to load cart for %s: %v", c.id, err)
		crt = &cart.Cart{ID: cart.GetCartID(c.id), SessionID: c.id}
	}

	return View{
		Screen:    screen,
		CartCount: crt.Count(),
		User:      u,
		Payload:   c.payload(screen, u, crt),
	}
}

func (c *Controller) payload(screen Screen, u *user.User, crt *cart.Cart) any {
	q := c.svc.Queries
	switch screen {
	case ScreenHome:
		return q.Home(c.browse.Search, c.homeCategory, c.saved)
	case ScreenBrowse:
		return q.Browse(c.browse, c.saved)
	case ScreenProduct:
		return q.Product(c.selectedProductID, c.saved)
	case ScreenAdd:
		return q.Listing(c.draft)
	case ScreenCart:
		return q.Cart(crt, c.svc.Carts.Summarize(crt), c.svc.Carts.Rules())
	case ScreenDashboard:
		return q.Dashboard(*u)
	default:
		return query.AuthPayload{}
	}
}
