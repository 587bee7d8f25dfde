package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const minSecretLength = 32

var (
	ErrMissingSecret = errors.New("JWT_SECRET environment variable is required")
	ErrShortSecret   = fmt.Errorf("JWT_SECRET must be at least %d characters long", minSecretLength)
	ErrInvalidRules  = errors.New("invalid pricing rules")
	ErrNoBrokers     = errors.New("KAFKA_BROKERS environment variable is required")
)

type Config struct {
	// Server Settings
	HTTPAddr           string
	CORSAllowedOrigins []string

	// Session Settings
	JWTSecret            string
	TokenExpiry          time.Duration
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Kafka Settings; no brokers means events are not published
	KafkaBrokers  []string
	KafkaTopic    string
	NotifierGroup string

	// Catalog database; empty means the built-in mock catalog
	CatalogDatabaseURL string

	Pricing cart.PricingRules

	// SMTP Settings
	SMTPHost string
	SMTPPort string
	SMTPFrom string
}

// Load builds the API server configuration. It reads the optional env files (".env" when none
// are given), then the environment; variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	cfg, err := load(envFiles)
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, ErrShortSecret
	}

	if cfg.TokenExpiry, err = getDuration("SESSION_TOKEN_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.Pricing, err = LoadPricing(os.Getenv("PRICING_FILE")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadNotifier builds the notifier configuration, which needs Kafka but no session settings
func LoadNotifier(envFiles ...string) (*Config, error) {
	cfg, err := load(envFiles)
	if err != nil {
		return nil, err
	}
	if !cfg.KafkaEnabled() {
		return nil, ErrNoBrokers
	}
	return cfg, nil
}

func load(envFiles []string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "ecofinds-events"),
		NotifierGroup:      getEnv("NOTIFIER_GROUP", "ecofinds-notifier"),
		CatalogDatabaseURL: os.Getenv("CATALOG_DATABASE_URL"),
		SMTPHost:           getEnv("SMTP_HOST", "localhost"),
		SMTPPort:           getEnv("SMTP_PORT", "1025"),
		SMTPFrom:           getEnv("SMTP_FROM", "orders@ecofinds.local"),
	}, nil
}

// KafkaEnabled reports whether brokers are configured
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LoadPricing reads pricing rules from a YAML file. Keys missing from the file keep their
// defaults; an empty path returns the defaults.
func LoadPricing(path string) (cart.PricingRules, error) {
	rules := cart.DefaultPricingRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read pricing file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse pricing file: %w", err)
	}

	switch {
	case rules.FreeShippingThreshold < 0:
		return rules, fmt.Errorf("%w: free_shipping_threshold must not be negative", ErrInvalidRules)
	case rules.FlatShippingFee < 0:
		return rules, fmt.Errorf("%w: flat_shipping_fee must not be negative", ErrInvalidRules)
	case rules.PromoRate < 0 || rules.PromoRate > 1:
		return rules, fmt.Errorf("%w: promo_rate must be between 0 and 1", ErrInvalidRules)
	}
	return rules, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
