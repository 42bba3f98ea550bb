package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://localhost:3001" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.ReconnectAttempts != 10 || cfg.ReconnectDelay != 500*time.Millisecond {
		t.Errorf("reconnect settings = %d / %v", cfg.ReconnectAttempts, cfg.ReconnectDelay)
	}
	if cfg.TokenPath == "" || cfg.LogPath == "" {
		t.Errorf("token/log paths not defaulted: %q / %q", cfg.TokenPath, cfg.LogPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PARLEY_SERVER_URL", "https://chat.example.com")
	t.Setenv("PARLEY_RECONNECT_ATTEMPTS", "3")
	t.Setenv("PARLEY_RECONNECT_DELAY", "2s")
	t.Setenv("PARLEY_TOKEN_PATH", "/tmp/custom-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "https://chat.example.com" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.ReconnectAttempts != 3 || cfg.ReconnectDelay != 2*time.Second {
		t.Errorf("reconnect settings = %d / %v", cfg.ReconnectAttempts, cfg.ReconnectDelay)
	}
	if cfg.TokenPath != "/tmp/custom-token" {
		t.Errorf("TokenPath = %q", cfg.TokenPath)
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "sub", "token"))

	if token, err := store.Load(); err != nil || token != "" {
		t.Fatalf("fresh store Load = %q, %v; want empty, nil", token, err)
	}

	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "abc123" {
		t.Errorf("Load = %q, want abc123", token)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if token, _ := store.Load(); token != "" {
		t.Errorf("token survives Clear: %q", token)
	}
	// Clearing again is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestTokenFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewTokenStore(path)

	if err := store.Save("secret"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}
