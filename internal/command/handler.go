package command

import (
	"context"
	"errors"

	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/review"
	"github.com/example/ecofinds/internal/filter"
	"github.com/example/ecofinds/internal/query"
	"github.com/example/ecofinds/internal/session"
)

var ErrInvalidPriceRange = errors.New("min price must not exceed max price")

// Handler turns decoded intents into controller transitions and re-renders the session
type Handler struct {
	registry *session.Registry
	queries  *query.Handler
}

func NewHandler(registry *session.Registry, queries *query.Handler) *Handler {
	return &Handler{registry: registry, queries: queries}
}

// apply runs an intent against the session and renders the resulting view
func (h *Handler) apply(ctx context.Context, sessionID string, intent func(*session.Controller) error) (*Result, error) {
	c, err := h.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := intent(c); err != nil {
		return nil, err
	}
	return &Result{View: c.Render(ctx)}, nil
}

// CreateSession starts a new session and returns its id with the initial view
func (h *Handler) CreateSession(ctx context.Context) (string, *Result) {
	c := h.registry.Create()
	return c.ID(), &Result{View: c.Render(ctx)}
}

func (h *Handler) Render(ctx context.Context, sessionID string) (*Result, error) {
	return h.apply(ctx, sessionID, func(*session.Controller) error { return nil })
}

// ============================================
// Auth
// ============================================

func (h *Handler) Login(ctx context.Context, sessionID string, cmd Login) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.Login(ctx, cmd.Email, cmd.Password)
	})
}

func (h *Handler) Signup(ctx context.Context, sessionID string, cmd Signup) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.Signup(ctx, cmd.Name, cmd.Email, cmd.Password, cmd.ConfirmPassword)
	})
}

func (h *Handler) Logout(ctx context.Context, sessionID string) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.Logout(ctx)
	})
}

// ============================================
// Navigation and browse
// ============================================

func (h *Handler) Navigate(ctx context.Context, sessionID string, cmd Navigate) (*Result, error) {
	screen, err := session.ParseScreen(cmd.Screen)
	if err != nil {
		return nil, err
	}
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		c.Navigate(screen)
		return nil
	})
}

func (h *Handler) OpenProduct(ctx context.Context, sessionID string, cmd OpenProduct) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		c.NavigateToProduct(cmd.ProductID)
		return nil
	})
}

func (h *Handler) SelectHomeCategory(ctx context.Context, sessionID string, cmd SelectHomeCategory) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.SelectHomeCategory(cmd.Category)
	})
}

func (h *Handler) UpdateBrowse(ctx context.Context, sessionID string, cmd UpdateBrowse) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		filters, err := buildFilters(c.Criteria(), cmd)
		if err != nil {
			return err
		}
		if cmd.Query != nil {
			c.SetSearch(*cmd.Query)
		}
		if cmd.Category != nil {
			c.SetCategory(*cmd.Category)
		}
		c.SetFilters(filters)
		return nil
	})
}

// ListProducts filters the catalog with the session's browse controls overridden by cmd.
// The session's own state is not changed.
func (h *Handler) ListProducts(ctx context.Context, sessionID string, cmd UpdateBrowse) (*query.BrowsePayload, error) {
	c, err := h.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	criteria := c.Criteria()
	filters, err := buildFilters(criteria, cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Query != nil {
		criteria.Search = *cmd.Query
	}
	if cmd.Category != nil {
		criteria.Category = *cmd.Category
	}
	if filters.Price != nil {
		criteria.Price = filters.Price
	}
	if filters.Conditions != nil {
		criteria.Conditions = filters.Conditions
	}
	if filters.VerifiedOnly != nil {
		criteria.VerifiedOnly = *filters.VerifiedOnly
	}
	if filters.Sort != nil {
		criteria.Sort = *filters.Sort
	}

	payload := h.queries.Browse(criteria, c.SavedProducts())
	return &payload, nil
}

func buildFilters(current filter.Criteria, cmd UpdateBrowse) (session.Filters, error) {
	var f session.Filters

	if cmd.MinPrice != nil || cmd.MaxPrice != nil {
		price := filter.DefaultPriceRange
		if current.Price != nil {
			price = *current.Price
		}
		if cmd.MinPrice != nil {
			price.Min = *cmd.MinPrice
		}
		if cmd.MaxPrice != nil {
			price.Max = *cmd.MaxPrice
		}
		if price.Min > price.Max {
			return f, ErrInvalidPriceRange
		}
		f.Price = &price
	}

	if cmd.Conditions != nil {
		f.Conditions = make([]catalog.Condition, 0, len(cmd.Conditions))
		for _, s := range cmd.Conditions {
			cond, err := catalog.ParseCondition(s)
			if err != nil {
				return f, err
			}
			f.Conditions = append(f.Conditions, cond)
		}
	}

	f.VerifiedOnly = cmd.VerifiedOnly
	if cmd.Sort != nil {
		key := filter.ParseSortKey(*cmd.Sort)
		f.Sort = &key
	}
	return f, nil
}

func (h *Handler) ToggleSaved(ctx context.Context, sessionID string, cmd ToggleSaved) (*Result, error) {
	var saved bool
	res, err := h.apply(ctx, sessionID, func(c *session.Controller) error {
		var err error
		saved, err = c.ToggleSaved(cmd.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Saved = &saved
	return res, nil
}

func (h *Handler) SubmitReview(ctx context.Context, sessionID string, cmd SubmitReview) (*Result, error) {
	var r *review.Review
	res, err := h.apply(ctx, sessionID, func(c *session.Controller) error {
		var err error
		r, err = c.SubmitReview(ctx, cmd.ProductID, review.Form{Rating: cmd.Rating, Comment: cmd.Comment})
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Review = r
	return res, nil
}

// ============================================
// Cart
// ============================================

// AddToCart resolves the product in the catalog; a missing quantity means 1
func (h *Handler) AddToCart(ctx context.Context, sessionID string, cmd AddToCart) (*Result, error) {
	p, ok := h.queries.Catalog().Get(cmd.ProductID)
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	quantity := cmd.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.AddToCart(ctx, p, quantity)
	})
}

func (h *Handler) UpdateCartQuantity(ctx context.Context, sessionID string, cmd UpdateCartQuantity) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.UpdateCartQuantity(ctx, cmd.ProductID, cmd.Quantity)
	})
}

func (h *Handler) RemoveFromCart(ctx context.Context, sessionID string, cmd RemoveFromCart) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.RemoveFromCart(ctx, cmd.ProductID)
	})
}

func (h *Handler) ApplyPromo(ctx context.Context, sessionID string, cmd ApplyPromo) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.ApplyPromo(ctx, cmd.Code)
	})
}

func (h *Handler) Checkout(ctx context.Context, sessionID string) (*Result, error) {
	c, err := h.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	receipt, err := c.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{View: c.Render(ctx), Receipt: receipt}, nil
}

func (h *Handler) Cart(ctx context.Context, sessionID string) (*query.CartPayload, error) {
	c, err := h.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	payload, err := c.CartPayload(ctx)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// ============================================
// Listing
// ============================================

func (h *Handler) UpdateListing(ctx context.Context, sessionID string, cmd UpdateListing) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.UpdateListing(cmd)
	})
}

func (h *Handler) UploadPhotos(ctx context.Context, sessionID string) (*Result, error) {
	var n int
	res, err := h.apply(ctx, sessionID, func(c *session.Controller) error {
		n = c.UploadPhotos()
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Uploaded = &n
	return res, nil
}

func (h *Handler) RemovePhoto(ctx context.Context, sessionID string, cmd RemovePhoto) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.RemovePhoto(cmd.Index)
	})
}

func (h *Handler) NextStep(ctx context.Context, sessionID string) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		return c.NextStep()
	})
}

func (h *Handler) PrevStep(ctx context.Context, sessionID string) (*Result, error) {
	return h.apply(ctx, sessionID, func(c *session.Controller) error {
		c.PrevStep()
		return nil
	})
}

func (h *Handler) SubmitListing(ctx context.Context, sessionID string) (*Result, error) {
	c, err := h.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sub, err := c.SubmitListing(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{View: c.Render(ctx), Submission: sub}, nil
}
