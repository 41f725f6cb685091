package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string `env:"PORT,default=5000"`

	MongoURL          string `env:"MONGO_URL"`
	MongoDB           string `env:"MONGO_DB,default=bistroDB"`
	MongoTransactions bool   `env:"MONGO_TRANSACTIONS,default=true"`

	JWTSecret string `env:"JWT_SECRET"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`

	EmailProvider   string `env:"EMAIL_PROVIDER,default=sendgrid"`
	EmailAPIKey     string `env:"EMAIL_API_KEY"`
	EmailSender     string `env:"EMAIL_SENDER,default=no-reply@bistroboss.local"`
	EmailWorkers    int    `env:"EMAIL_WORKERS,default=2"`
	EmailQueueSize  int    `env:"EMAIL_QUEUE_SIZE,default=100"`
	EmailMaxRetries int    `env:"EMAIL_MAX_RETRIES,default=3"`

	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL,default=0s"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST,default=10"`

	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// LoadDotEnv loads a local .env file if one exists. A missing file is not an error.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	cfg.normalize()

	if cfg.MongoURL == "" {
		return Config{}, errors.New("MONGO_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.EmailProvider {
	case "sendgrid", "postmark":
	default:
		return Config{}, fmt.Errorf("unsupported EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
	if cfg.RoleCacheTTL < 0 {
		return Config{}, errors.New("ROLE_CACHE_TTL must not be negative")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into its entries.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, part := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "5000"
	}
	c.MongoURL = strings.TrimSpace(c.MongoURL)
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.EmailProvider = strings.ToLower(strings.TrimSpace(c.EmailProvider))
	if c.EmailProvider == "" {
		c.EmailProvider = "sendgrid"
	}
	if c.MongoDB == "" {
		c.MongoDB = "bistroDB"
	}
	if c.EmailWorkers <= 0 {
		c.EmailWorkers = 1
	}
	if c.EmailQueueSize <= 0 {
		c.EmailQueueSize = 1
	}
	if c.EmailMaxRetries < 0 {
		c.EmailMaxRetries = 0
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = 5
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = c.RateLimitRPS
	}
}
