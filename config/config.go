package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port                string
	Env                 string
	PublicBaseURL       string // base URL for checkout redirect construction
	StripeSecretKey     string
	StripeWebhookSecret string // absence is handled per-request by the webhook handler
	MongoURI            string
	MongoDB             string
	RedisURL            string
	CartTTL             time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		PublicBaseURL:       os.Getenv("PUBLIC_BASE_URL"),
		StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "storefront"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CartTTL:             7 * 24 * time.Hour,
	}

	if ttl := os.Getenv("CART_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid CART_TTL: %w", err)
		}
		cfg.CartTTL = d
	}

	if cfg.PublicBaseURL == "" || cfg.StripeSecretKey == "" || cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
