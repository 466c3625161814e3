// Package config reads server settings from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Port      string
	LogLevel  string
	ProjectID string
	// CredentialsFile is a service account JSON path; empty uses Application Default Credentials.
	CredentialsFile string
	// DisableStore runs the directory without Firestore: empty listings and local-only reviews.
	DisableStore bool
	// DemoData serves a seeded in-memory directory instead of Firestore.
	DemoData bool
	// EventsToken guards the trigger endpoints; they are not mounted when empty.
	EventsToken    string
	AllowedOrigins []string
}

// StoreEnabled reports whether the server should connect to Firestore.
func (c Config) StoreEnabled() bool {
	return !c.DisableStore && !c.DemoData && c.ProjectID != ""
}

// Load reads files (default ".env") into the environment without overriding variables
// that are already set, then builds a Config. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Port:            get("PORT", "8080"),
		LogLevel:        get("LOG_LEVEL", "info"),
		ProjectID:       get("FIREBASE_PROJECT_ID", get("GOOGLE_CLOUD_PROJECT", "")),
		CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		EventsToken:     get("EVENTS_TOKEN", ""),
	}

	for key, dst := range map[string]*bool{
		"CARERS_DISABLE_STORE": &cfg.DisableStore,
		"CARERS_DEMO_DATA":     &cfg.DemoData,
	} {
		raw := get(key, "")
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", key, err)
		}
		*dst = v
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT: invalid value %q", cfg.Port)
	}

	for origin := range strings.SplitSeq(get("CORS_ALLOWED_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}
