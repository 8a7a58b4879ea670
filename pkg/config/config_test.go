package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNFromLegacyVars(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{
		LegacyHost:     "db.internal",
		LegacyPort:     5432,
		LegacyUser:     "backoffice",
		LegacyPassword: "s3cret",
		LegacyName:     "luxurydrive",
		LegacySSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	for _, fragment := range []string{"postgres://", "backoffice:s3cret@db.internal:5432", "luxurydrive", "sslmode=require"} {
		if !strings.Contains(cfg.DSN, fragment) {
			t.Fatalf("DSN %q missing %q", cfg.DSN, fragment)
		}
	}
}

func TestEnsureDSNPrefersExplicit(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{DSN: "postgres://explicit"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if cfg.DSN != "postgres://explicit" {
		t.Fatalf("explicit DSN overwritten: %s", cfg.DSN)
	}
}

func TestEnsureDSNReportsMissingVars(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{LegacyHost: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{EnvDBUser, EnvDBName} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q missing %q", err.Error(), name)
		}
	}
}

func TestCloudinaryEnabled(t *testing.T) {
	t.Parallel()

	if (CloudinaryConfig{}).Enabled() {
		t.Fatal("empty config must be disabled")
	}
	full := CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"}
	if !full.Enabled() {
		t.Fatal("full config must be enabled")
	}
}

func TestMaxUploadBytes(t *testing.T) {
	t.Parallel()

	if got := (UploadConfig{MaxUploadMB: 10}).MaxUploadBytes(); got != 10<<20 {
		t.Fatalf("expected 10MB in bytes, got %d", got)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	t.Parallel()

	if !(AppConfig{Env: "Development"}).IsDev() {
		t.Fatal("expected case-insensitive dev match")
	}
	if (AppConfig{Env: "development"}).IsProd() {
		t.Fatal("dev must not be prod")
	}
}
