package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Session tokens issued at login.
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	TokenTTLHours int    `mapstructure:"TOKEN_TTL_HOURS"`

	// Platform identity resolution (auth code -> open id).
	AuthAPIBase   string `mapstructure:"AUTH_API_BASE"`
	AuthAppID     string `mapstructure:"AUTH_APP_ID"`
	AuthAppSecret string `mapstructure:"AUTH_APP_SECRET"`

	// Payment gateway (unified-order API).
	PayGatewayURL string `mapstructure:"PAY_GATEWAY_URL"`
	PayMerchantID string `mapstructure:"PAY_MERCHANT_ID"`
	PayAPIKey     string `mapstructure:"PAY_API_KEY"`
	PayNotifyURL  string `mapstructure:"PAY_NOTIFY_URL"`

	RateLimitRPS    float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int     `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeoutS int     `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	BodyLimit       string  `mapstructure:"BODY_LIMIT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("TOKEN_TTL_HOURS", 72)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("BODY_LIMIT", "1M")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"CORS_ORIGINS", "JWT_SECRET", "TOKEN_TTL_HOURS",
		"AUTH_API_BASE", "AUTH_APP_ID", "AUTH_APP_SECRET",
		"PAY_GATEWAY_URL", "PAY_MERCHANT_ID", "PAY_API_KEY", "PAY_NOTIFY_URL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT_SECONDS", "BODY_LIMIT",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: dev auth is active and a built-in JWT secret is used.")
		log.Println("WARNING: set ENV=production and JWT_SECRET for production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// the JWT secret and payment gateway credentials must be present: the server
// refuses to start rather than issue unverifiable tokens or sign payment
// requests with an empty key.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
		}
		if c.PayGatewayURL != "" && c.PayAPIKey == "" {
			return fmt.Errorf("PAY_API_KEY is required when PAY_GATEWAY_URL is set")
		}
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	return nil
}
