package config

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "STOCK_POLICY", "TIMEZONE", "OWNER_SECRET_HASH", "OWNER_SECRET_CODE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "3000" || cfg.DBDriver != "sqlite" || cfg.StockPolicy != "allow" || cfg.TimeZone != "UTC" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.ReconcileSchedule != "@hourly" {
		t.Fatalf("reconcile schedule: %q", cfg.ReconcileSchedule)
	}
}

func TestLoadHashesOwnerSecret(t *testing.T) {
	t.Setenv("OWNER_SECRET_HASH", "")
	t.Setenv("OWNER_SECRET_CODE", "0wnerSecret!")
	t.Setenv("STOCK_POLICY", "sometimes")
	cfg := Load()
	if err := bcrypt.CompareHashAndPassword([]byte(cfg.OwnerSecretHash), []byte("0wnerSecret!")); err != nil {
		t.Fatalf("owner hash does not match: %v", err)
	}
	if cfg.StockPolicy != "allow" {
		t.Fatalf("unknown policy should fall back to allow, got %q", cfg.StockPolicy)
	}
}
