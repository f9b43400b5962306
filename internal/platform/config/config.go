package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Server   ServerConfig
	Backend  BackendConfig
	CMS      CMSConfig
	Gateway  GatewayConfig
	Storage  StorageConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	WriteTimeout time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"120s"`
}

// BackendConfig points at the commerce REST API.
type BackendConfig struct {
	BaseURL string        `envconfig:"BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"8s"`
}

// CMSConfig points at the headless CMS serving glossary terms and articles.
type CMSConfig struct {
	BaseURL    string        `envconfig:"CMS_BASE_URL"`
	APIToken   string        `envconfig:"CMS_API_TOKEN"`
	Timeout    time.Duration `envconfig:"CMS_TIMEOUT" default:"5s"`
	ContentDir string        `envconfig:"CMS_CONTENT_DIR" default:"content"`
}

// GatewayConfig collects payment gateway credentials. The widget key is
// public; the secret signs and verifies callback payloads.
type GatewayConfig struct {
	Provider     string `envconfig:"PAYMENT_PROVIDER" default:"razorpay"`
	KeyID        string `envconfig:"PAYMENT_KEY_ID"`
	KeySecret    string `envconfig:"PAYMENT_KEY_SECRET"`
	StripeAPIKey string `envconfig:"STRIPE_API_KEY"`
	Currency     string `envconfig:"PAYMENT_CURRENCY" default:"INR"`
}

// StorageConfig controls the local session store backing anonymous carts.
type StorageConfig struct {
	Dir string `envconfig:"LOCAL_STORE_DIR" default:".storefront"`
}

// Load reads the optional .env file and binds environment variables.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments inject environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	return &cfg, nil
}
