// Package testsupport holds shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"winnow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Jellyfin.URL = "http://localhost:8096"
	cfgVal.Jellyfin.APIKey = "test"
	cfg := &cfgVal

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return cfg
}

// WithJellyfinURL points the test config at a specific server, usually an
// httptest instance.
func WithJellyfinURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Jellyfin.URL = url
	}
}

// WithRefresh toggles the post-cleanup library refresh.
func WithRefresh(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Jellyfin.Refresh = enabled
	}
}

// WithAPIToken sets the daemon API bearer token.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}
