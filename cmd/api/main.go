package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/ecofinds/internal/api"
	"github.com/example/ecofinds/internal/auth"
	"github.com/example/ecofinds/internal/command"
	"github.com/example/ecofinds/internal/config"
	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/infrastructure/kafka"
	"github.com/example/ecofinds/internal/infrastructure/store"
	"github.com/example/ecofinds/internal/query"
	"github.com/example/ecofinds/internal/session"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] EcoFinds - Marketplace API")
	log.Println("[API] ========================================")
	log.Printf("[API] Session TTL: %s (sweep every %s)", cfg.SessionTTL, cfg.SessionSweepInterval)
	log.Printf("[API] Promo code: %s, free shipping over $%.2f", cfg.Pricing.PromoCode, cfg.Pricing.FreeShippingThreshold)

	// Catalog snapshot, shared read-only by every session
	products, err := loadProducts(ctx, cfg)
	if err != nil {
		log.Fatalf("[API] Failed to load catalog: %v", err)
	}
	products, rejected := catalog.ValidProducts(products)
	for _, e := range rejected {
		log.Printf("[API] Skipping catalog entry: %v", e)
	}
	log.Printf("[API] Catalog: %d products", len(products))

	// Event store, optionally publishing to Kafka
	var publisher store.Publisher
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[API] Kafka: %v, topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Println("[API] Kafka: disabled, events stay in memory")
	}
	eventStore := store.NewEventStore(publisher)

	// Initialize domain services
	queryHandler := query.NewHandler(catalog.NewCatalog(products))
	registry := session.NewRegistry(session.Services{
		Users:    user.NewService(eventStore),
		Carts:    cart.NewService(eventStore, cfg.Pricing),
		Listings: listing.NewService(eventStore),
		Queries:  queryHandler,
	}, eventStore, cfg.SessionTTL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		registry.Run(ctx, cfg.SessionSweepInterval)
	}()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)
	handlers := api.NewHandlers(command.NewHandler(registry, queryHandler), jwtService)
	router := api.NewRouter(handlers, jwtService, cfg.CORSAllowedOrigins)

	// Start HTTP server
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel() // Stops the session sweeper

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}

	wg.Wait()
}

// loadProducts reads the catalog from Postgres when configured, otherwise uses the mock catalog
func loadProducts(ctx context.Context, cfg *config.Config) ([]catalog.Product, error) {
	if cfg.CatalogDatabaseURL == "" {
		log.Println("[API] Catalog: built-in mock products")
		return catalog.MockProducts(), nil
	}

	db, err := store.ConnectPostgres(cfg.CatalogDatabaseURL)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	log.Println("[API] Connected to PostgreSQL (catalog)")

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return store.LoadCatalog(loadCtx, db)
}
