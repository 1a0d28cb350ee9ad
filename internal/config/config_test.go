package config

import (
	"strings"
	"testing"
)

func TestValidate_ProductionRequiresJWTSecret(t *testing.T) {
	cfg := &Config{Env: "production", TokenTTLHours: 72}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error = %v, want mention of JWT_SECRET", err)
	}
}

func TestValidate_ProductionRejectsShortSecret(t *testing.T) {
	cfg := &Config{Env: "production", JWTSecret: "short", TokenTTLHours: 72}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestValidate_DevelopmentAllowsMissingSecret(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLHours: 72}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_GatewayNeedsAPIKey(t *testing.T) {
	cfg := &Config{
		Env:           "production",
		JWTSecret:     strings.Repeat("s", 32),
		TokenTTLHours: 72,
		PayGatewayURL: "https://pay.example.com",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for gateway without API key")
	}
}

func TestValidate_TokenTTL(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLHours: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero token TTL")
	}
}

func TestIsDev(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("IsDev() = false for development")
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("IsDev() = true for production")
	}
}
