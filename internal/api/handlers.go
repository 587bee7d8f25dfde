package api

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/ecofinds/internal/api/middleware"
	"github.com/example/ecofinds/internal/auth"
	"github.com/example/ecofinds/internal/command"
	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/review"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/session"
)

type Handlers struct {
	cmdHandler *command.Handler
	jwtService *auth.JWTService
}

func NewHandlers(cmdHandler *command.Handler, jwtService *auth.JWTService) *Handlers {
	return &Handlers{
		cmdHandler: cmdHandler,
		jwtService: jwtService,
	}
}

// SessionResponse is returned when a new session is created
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	View      session.View `json:"view"`
}

// ============================================
// Session
// ============================================

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, res := h.cmdHandler.CreateSession(r.Context())

	token, expiresAt, err := h.jwtService.GenerateSessionToken(sessionID)
	if err != nil {
		log.Printf("[API] Failed to sign session token: %v", err)
		respondJSONError(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusCreated, SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		View:      res.View,
	})
}

func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.Render(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

// ============================================
// Auth
// ============================================

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.Login
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.Login(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var cmd command.Signup
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.Signup(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.Logout(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

// ============================================
// Navigation and browse
// ============================================

func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	var cmd command.Navigate
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.Navigate(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) SelectHomeCategory(w http.ResponseWriter, r *http.Request) {
	var cmd command.SelectHomeCategory
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.SelectHomeCategory(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

// UpdateSearch sets search text and category; UpdateBrowse additionally takes the filter panel
func (h *Handlers) UpdateSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query    *string `json:"query"`
		Category *string `json:"category"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.cmdHandler.UpdateBrowse(r.Context(), middleware.GetSessionID(r.Context()), command.UpdateBrowse{
		Query:    req.Query,
		Category: req.Category,
	})
	h.respondResult(w, res, err)
}

func (h *Handlers) UpdateBrowse(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateBrowse
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.UpdateBrowse(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	cmd, err := browseFromQuery(r)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := h.cmdHandler.ListProducts(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	if err != nil {
		respondJSONError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handlers) OpenProduct(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.OpenProduct(r.Context(), middleware.GetSessionID(r.Context()), command.OpenProduct{
		ProductID: r.PathValue("id"),
	})
	h.respondResult(w, res, err)
}

func (h *Handlers) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.ToggleSaved(r.Context(), middleware.GetSessionID(r.Context()), command.ToggleSaved{
		ProductID: r.PathValue("id"),
	})
	h.respondResult(w, res, err)
}

func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var cmd command.SubmitReview
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.ProductID = r.PathValue("id")
	res, err := h.cmdHandler.SubmitReview(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

// ============================================
// Cart
// ============================================

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	payload, err := h.cmdHandler.Cart(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		respondJSONError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var cmd command.AddToCart
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.AddToCart(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.cmdHandler.UpdateCartQuantity(r.Context(), middleware.GetSessionID(r.Context()), command.UpdateCartQuantity{
		ProductID: r.PathValue("id"),
		Quantity:  req.Quantity,
	})
	h.respondResult(w, res, err)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.RemoveFromCart(r.Context(), middleware.GetSessionID(r.Context()), command.RemoveFromCart{
		ProductID: r.PathValue("id"),
	})
	h.respondResult(w, res, err)
}

func (h *Handlers) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var cmd command.ApplyPromo
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.ApplyPromo(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.Checkout(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

// ============================================
// Listing
// ============================================

func (h *Handlers) UpdateListing(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateListing
	if !decodeBody(w, r, &cmd) {
		return
	}
	res, err := h.cmdHandler.UpdateListing(r.Context(), middleware.GetSessionID(r.Context()), cmd)
	h.respondResult(w, res, err)
}

func (h *Handlers) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.UploadPhotos(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

func (h *Handlers) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondJSONError(w, "photo index must be an integer", http.StatusBadRequest)
		return
	}
	res, err := h.cmdHandler.RemovePhoto(r.Context(), middleware.GetSessionID(r.Context()), command.RemovePhoto{Index: index})
	h.respondResult(w, res, err)
}

func (h *Handlers) NextStep(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.NextStep(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

func (h *Handlers) PrevStep(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.PrevStep(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

func (h *Handlers) SubmitListing(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.SubmitListing(r.Context(), middleware.GetSessionID(r.Context()))
	h.respondResult(w, res, err)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================
// Helpers
// ============================================

func (h *Handlers) respondResult(w http.ResponseWriter, res *command.Result, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[API] Intent failed: %v", err)
		}
		respondJSONError(w, err.Error(), status)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrNotLoggedIn):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var validationErrors = []error{
	session.ErrUnknownScreen,
	session.ErrUnknownCategory,
	command.ErrInvalidPriceRange,
	catalog.ErrInvalidCondition,
	user.ErrPasswordMismatch,
	cart.ErrInvalidQuantity,
	cart.ErrInvalidProduct,
	cart.ErrInvalidPromoCode,
	cart.ErrEmptyCart,
	listing.ErrTitleRequired,
	listing.ErrDescriptionRequired,
	listing.ErrCategoryRequired,
	listing.ErrUnknownCategory,
	listing.ErrPhotoRequired,
	listing.ErrConditionRequired,
	listing.ErrPhotoIndex,
	listing.ErrInvalidPrice,
	listing.ErrNotReady,
	review.ErrInvalidRating,
	review.ErrCommentRequired,
	review.ErrProductRequired,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// browseFromQuery reads ?q&category&min_price&max_price&condition&verified&sort
func browseFromQuery(r *http.Request) (command.UpdateBrowse, error) {
	var cmd command.UpdateBrowse
	q := r.URL.Query()

	if q.Has("q") {
		v := q.Get("q")
		cmd.Query = &v
	}
	if q.Has("category") {
		v := q.Get("category")
		cmd.Category = &v
	}
	if q.Has("sort") {
		v := q.Get("sort")
		cmd.Sort = &v
	}
	for _, key := range []string{"min_price", "max_price"} {
		if !q.Has(key) {
			continue
		}
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return cmd, errors.New(key + " must be a finite number")
		}
		if key == "min_price" {
			cmd.MinPrice = &v
		} else {
			cmd.MaxPrice = &v
		}
	}
	for _, raw := range q["condition"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cmd.Conditions = append(cmd.Conditions, c)
			}
		}
	}
	if q.Has("verified") {
		v, err := strconv.ParseBool(q.Get("verified"))
		if err != nil {
			return cmd, errors.New("verified must be a boolean")
		}
		cmd.VerifiedOnly = &v
	}
	return cmd, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
