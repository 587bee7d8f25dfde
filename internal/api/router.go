package api

import (
	"net/http"

	"github.com/example/ecofinds/internal/api/middleware"
	"github.com/example/ecofinds/internal/auth"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

func NewRouter(handlers *Handlers, jwtService *auth.JWTService, allowedOrigins []string) http.Handler {
	standard := alice.New(middleware.RecoverPanic, middleware.LogRequest, middleware.SecureHeaders, middleware.MakeResponseJSON)
	authed := standard.Append(middleware.SessionMiddleware(jwtService))

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", standard.ThenFunc(handlers.Health))

	// Session
	mux.Handle("POST /api/sessions", standard.ThenFunc(handlers.CreateSession))
	mux.Handle("GET /api/view", authed.ThenFunc(handlers.GetView))

	// Auth
	mux.Handle("POST /api/auth/login", authed.ThenFunc(handlers.Login))
	mux.Handle("POST /api/auth/signup", authed.ThenFunc(handlers.Signup))
	mux.Handle("POST /api/auth/logout", authed.ThenFunc(handlers.Logout))

	// Navigation and browse
	mux.Handle("POST /api/navigate", authed.ThenFunc(handlers.Navigate))
	mux.Handle("PUT /api/home", authed.ThenFunc(handlers.SelectHomeCategory))
	mux.Handle("PUT /api/search", authed.ThenFunc(handlers.UpdateSearch))
	mux.Handle("PUT /api/browse", authed.ThenFunc(handlers.UpdateBrowse))

	// Products
	mux.Handle("GET /api/products", authed.ThenFunc(handlers.GetProducts))
	mux.Handle("POST /api/products/{id}/open", authed.ThenFunc(handlers.OpenProduct))
	mux.Handle("POST /api/products/{id}/save", authed.ThenFunc(handlers.ToggleSaved))
	mux.Handle("POST /api/products/{id}/reviews", authed.ThenFunc(handlers.SubmitReview))

	// Cart
	mux.Handle("GET /api/cart", authed.ThenFunc(handlers.GetCart))
	mux.Handle("POST /api/cart/items", authed.ThenFunc(handlers.AddToCart))
	mux.Handle("PUT /api/cart/items/{id}", authed.ThenFunc(handlers.UpdateCartQuantity))
	mux.Handle("DELETE /api/cart/items/{id}", authed.ThenFunc(handlers.RemoveFromCart))
	mux.Handle("POST /api/cart/promo", authed.ThenFunc(handlers.ApplyPromo))
	mux.Handle("POST /api/cart/checkout", authed.ThenFunc(handlers.Checkout))

	// Listing
	mux.Handle("PUT /api/listing", authed.ThenFunc(handlers.UpdateListing))
	mux.Handle("POST /api/listing/photos", authed.ThenFunc(handlers.UploadPhotos))
	mux.Handle("DELETE /api/listing/photos/{index}", authed.ThenFunc(handlers.RemovePhoto))
	mux.Handle("POST /api/listing/next", authed.ThenFunc(handlers.NextStep))
	mux.Handle("POST /api/listing/prev", authed.ThenFunc(handlers.PrevStep))
	mux.Handle("POST /api/listing/submit", authed.ThenFunc(handlers.SubmitListing))

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	return c.Handler(mux)
}
