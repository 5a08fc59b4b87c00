package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access TTL, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 168*time.Hour {
		t.Fatalf("expected 7d refresh TTL, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.OTPTTL != 15*time.Minute {
		t.Fatalf("expected 15m OTP TTL, got %s", cfg.OTPTTL)
	}
	if cfg.RefreshSecret != "test-secret" {
		t.Fatal("refresh secret should fall back to the JWT secret")
	}
	if !cfg.IsDev() {
		t.Fatal("test env should count as dev")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadRequiresInfraOutsideDev(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL in production")
	}
}

func TestAddress(t *testing.T) {
	cfg := Config{Port: "9000"}
	if cfg.Address() != ":9000" {
		t.Fatalf("got %q", cfg.Address())
	}
	cfg.Port = ":9000"
	if cfg.Address() != ":9000" {
		t.Fatalf("got %q", cfg.Address())
	}
}
