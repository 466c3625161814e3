package config

import (
	"os"
	"path/filepath"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StoreEnabled() {
		t.Fatal("store must be disabled without a project id")
	}
	if cfg.AllowedOrigins != nil {
		t.Fatalf("expected no origins, got %v", cfg.AllowedOrigins)
	}
}

func TestFromEnvValues(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                           "9090",
		"LOG_LEVEL":                      "debug",
		"GOOGLE_CLOUD_PROJECT":           "fallback",
		"FIREBASE_PROJECT_ID":            "carers-prod",
		"GOOGLE_APPLICATION_CREDENTIALS": "/secrets/sa.json",
		"EVENTS_TOKEN":                   "s3cret",
		"CORS_ALLOWED_ORIGINS":           " https://a.example , ,https://b.example",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "debug" || cfg.ProjectID != "carers-prod" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CredentialsFile != "/secrets/sa.json" || cfg.EventsToken != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.StoreEnabled() {
		t.Fatal("expected store enabled")
	}
}

func TestFromEnvDisableStore(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"FIREBASE_PROJECT_ID":  "carers-prod",
		"CARERS_DISABLE_STORE": "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreEnabled() {
		t.Fatal("expected store disabled")
	}
}

func TestFromEnvDemoData(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"FIREBASE_PROJECT_ID": "carers-prod",
		"CARERS_DEMO_DATA":    "1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DemoData {
		t.Fatal("expected demo data enabled")
	}
	if cfg.StoreEnabled() {
		t.Fatal("demo data must replace Firestore")
	}
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"port word":     {"PORT": "http"},
		"port range":    {"PORT": "70000"},
		"disable value": {"CARERS_DISABLE_STORE": "sometimes"},
		"demo value":    {"CARERS_DEMO_DATA": "yes please"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(lookupFrom(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FIREBASE_PROJECT_ID=from-file\nPORT=7000\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PORT", "7100")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	_ = os.Unsetenv("FIREBASE_PROJECT_ID")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProjectID != "from-file" {
		t.Fatalf("expected project from file, got %q", cfg.ProjectID)
	}
	if cfg.Port != "7100" {
		t.Fatalf("expected existing PORT to win, got %q", cfg.Port)
	}
}

func TestLoadIgnoresMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}
