package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("CLIPBOARD_BACKEND", "atotto")
	t.Setenv("DEFAULT_EXPIRATION_MS", "30000")
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("PANIC_HOTKEY", "Ctrl+Alt+X")
	t.Setenv("ENABLE_TRAY", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Backend != "atotto" {
		t.Errorf("Expected Backend to be 'atotto', got '%s'", cfg.Backend)
	}
	if cfg.DefaultExpirationMs != 30000 {
		t.Errorf("Expected DefaultExpirationMs to be 30000, got %d", cfg.DefaultExpirationMs)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true")
	}
	if cfg.PanicHotkey != "Ctrl+Alt+X" {
		t.Errorf("Expected PanicHotkey to be 'Ctrl+Alt+X', got '%s'", cfg.PanicHotkey)
	}
	if cfg.EnableTray {
		t.Errorf("Expected EnableTray to be false")
	}
}

func TestDefaults(t *testing.T) {
	for _, k := range []string{"CLIPBOARD_BACKEND", "DEFAULT_EXPIRATION_MS", "PANIC_HOTKEY", "ENABLE_TRAY", "CALL_TIMEOUT_SEC", "SECURE_CLIPBOARD_ENV"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "design" {
		t.Errorf("Backend = %q, want design", cfg.Backend)
	}
	if cfg.DefaultExpirationMs != 0 {
		t.Errorf("DefaultExpirationMs = %d, want 0", cfg.DefaultExpirationMs)
	}
	if !cfg.EnableTray {
		t.Error("tray should be enabled by default")
	}
	if cfg.CallTimeoutSec != 5 {
		t.Errorf("CallTimeoutSec = %d, want 5", cfg.CallTimeoutSec)
	}
}

func TestOverridesWin(t *testing.T) {
	t.Setenv("CLIPBOARD_BACKEND", "atotto")
	t.Setenv("DEFAULT_EXPIRATION_MS", "30000")
	t.Setenv("PANIC_HOTKEY", "Ctrl+Alt+X")

	exp := int64(1500)
	cfg, err := LoadWithOptions(LoadOptions{
		BackendOverride:      "memory",
		ExpirationMsOverride: &exp,
		HotkeyOverride:       "Ctrl+Shift+F12",
	})
	if err != nil {
		t.Fatalf("LoadWithOptions: %v", err)
	}
	if cfg.Backend != "memory" || cfg.DefaultExpirationMs != 1500 || cfg.PanicHotkey != "Ctrl+Shift+F12" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown backend", "CLIPBOARD_BACKEND", "pasteboard"},
		{"negative expiration", "DEFAULT_EXPIRATION_MS", "-5"},
		{"non-numeric expiration", "DEFAULT_EXPIRATION_MS", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}

	neg := int64(-1)
	if _, err := LoadWithOptions(LoadOptions{ExpirationMsOverride: &neg}); err == nil {
		t.Fatal("expected error for negative override")
	}
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure-clipboard.env")
	if err := os.WriteFile(path, []byte("CLIPBOARD_BACKEND=memory\nDEFAULT_EXPIRATION_MS=45000\n"), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SECURE_CLIPBOARD_ENV", path)
	// Register for cleanup, then unset so the file value is used.
	t.Setenv("CLIPBOARD_BACKEND", "")
	t.Setenv("DEFAULT_EXPIRATION_MS", "")
	os.Unsetenv("CLIPBOARD_BACKEND")
	os.Unsetenv("DEFAULT_EXPIRATION_MS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnvPath != path {
		t.Errorf("EnvPath = %q, want %q", cfg.EnvPath, path)
	}
	if cfg.Backend != "memory" || cfg.DefaultExpirationMs != 45000 {
		t.Errorf("env file values not applied: %+v", cfg)
	}
}
