package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"winnow/internal/config"
)

func TestLoadDefaultsUseEnvJellyfinKeyAndExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("JELLYFIN_API_KEY", "env-key")

	path := filepath.Join(tempHome, "winnow.toml")
	if err := os.WriteFile(path, []byte("[jellyfin]\nurl = \"http://media.local:8096/\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}

	if cfg.Jellyfin.URL != "http://media.local:8096" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Jellyfin.URL)
	}
	if cfg.Jellyfin.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Jellyfin.APIKey)
	}
	if !cfg.Jellyfin.Refresh {
		t.Fatal("expected refresh_after_cleanup enabled by default")
	}
	if cfg.Cleanup.ProviderKey != "Imdb" {
		t.Fatalf("unexpected provider key: %q", cfg.Cleanup.ProviderKey)
	}
	if cfg.Cleanup.DirDeleteThreshold != 20*1024*1024 {
		t.Fatalf("unexpected directory threshold: %d", cfg.Cleanup.DirDeleteThreshold)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7519" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "winnow", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}

func TestLoadRejectsMissingJellyfinURL(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("JELLYFIN_API_KEY", "")

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing jellyfin.url")
	}
	if !strings.Contains(err.Error(), "jellyfin.url") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "winnow.toml")
	body := `
[jellyfin]
url = "http://media.local:8096"
api_key = "abc"

[cleanup]
dir_delete_threshold_bytes = -1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	// Non-positive thresholds normalize back to the default rather than failing.
	if cfg.Cleanup.DirDeleteThreshold != 20*1024*1024 {
		t.Fatalf("expected default threshold, got %d", cfg.Cleanup.DirDeleteThreshold)
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[jellyfin]") {
		t.Fatal("expected sample to contain a [jellyfin] section")
	}
}
