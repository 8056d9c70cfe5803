package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DB_MIGRATE", "JWT_SECRET", "TOKEN_TTL",
		"REQUIRE_TOKEN", "BCRYPT_COST", "CORS_ORIGINS", "PRICE_TABLE"} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if cfg.Addr() != ":5000" {
		t.Errorf("Addr() = %q; want %q", cfg.Addr(), ":5000")
	}
	if cfg.DatabaseURL != defaultDatabaseURL {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != insecureJWTSecret {
		t.Errorf("JWTSecret = %q; want insecure default", cfg.JWTSecret)
	}
	if !cfg.Migrate || cfg.RequireToken {
		t.Errorf("Migrate = %v, RequireToken = %v; want true, false", cfg.Migrate, cfg.RequireToken)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d; want 10", cfg.BcryptCost)
	}
	if len(cfg.PriceTable) != 0 {
		t.Errorf("PriceTable = %v; want empty", cfg.PriceTable)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3001")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REQUIRE_TOKEN", "true")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("PRICE_TABLE", "aapl=190.5, MSFT=410")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if cfg.Addr() != ":3001" || cfg.DatabaseURL != "postgres://u:p@db:5432/x" || cfg.JWTSecret != "s3cret" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.RequireToken || cfg.TokenTTL != 90*time.Minute || cfg.BcryptCost != 12 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.PriceTable["AAPL"] != 190.5 || cfg.PriceTable["MSFT"] != 410 {
		t.Errorf("PriceTable = %v", cfg.PriceTable)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	for _, kv := range [][2]string{
		{"DB_MIGRATE", "maybe"},
		{"TOKEN_TTL", "a day"},
		{"BCRYPT_COST", "ten"},
		{"PRICE_TABLE", "AAPL"},
		{"PRICE_TABLE", "AAPL=abc"},
	} {
		clearEnv(t)
		t.Setenv(kv[0], kv[1])
		if _, err := FromEnv(); err == nil {
			t.Errorf("FromEnv() with %s=%q: expected error", kv[0], kv[1])
		}
	}
}
