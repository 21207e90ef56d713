package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every environment value the server consumes, resolved and
// validated once at startup. Components receive it explicitly instead of
// reading ambient process state.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	// Card issuance. PublicBaseURL and PinataJWT are deployment
	// preconditions for generation; the server still starts without them
	// so verification keeps working, but generation aborts early.
	PublicBaseURL    string
	PinataJWT        string
	PinataGateway    string
	UniPDFLicenseKey string
}

// Load reads the environment, preferring a local .env in development.
func Load() (*Config, error) {
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		PublicBaseURL:    os.Getenv("PUBLIC_BASE_URL"),
		PinataJWT:        os.Getenv("PINATA_JWT"),
		PinataGateway:    getenv("PINATA_GATEWAY", "https://gateway.pinata.cloud"),
		UniPDFLicenseKey: os.Getenv("UNIPDF_LICENSE_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.PublicBaseURL == "" {
		log.Println("Warning: PUBLIC_BASE_URL not set, card generation is disabled")
	}
	if cfg.PinataJWT == "" {
		log.Println("Warning: PINATA_JWT not set, card generation is disabled")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
