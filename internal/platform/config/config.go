// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honored when present for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr string

	DatabaseURL string
	RedisURL    string

	SessionSigningKey string
	SessionTTL        time.Duration

	// KafkaBrokers enables the Kafka audit publisher when non-empty;
	// otherwise audit events go to the structured log.
	KafkaBrokers    []string
	KafkaAuditTopic string

	// PaymentVerifyURL enables provider-side payment verification. Empty
	// means the redirect parameter is trusted as-is (development only).
	PaymentVerifyURL string
}

// Load reads configuration from the environment, applying defaults suitable
// for local development. It returns an error only for values that cannot be
// defaulted safely.
func Load() (Config, error) {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := Config{
		Addr:              getEnv("MEMBERDESK_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SessionSigningKey: os.Getenv("SESSION_SIGNING_KEY"),
		KafkaAuditTopic:   getEnv("KAFKA_AUDIT_TOPIC", "memberdesk.audit"),
		PaymentVerifyURL:  os.Getenv("PAYMENT_VERIFY_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	ttl := getEnv("SESSION_TTL", "12h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = d

	if cfg.SessionSigningKey == "" {
		// Default for development only; production must set its own key.
		cfg.SessionSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
