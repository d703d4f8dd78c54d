package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"secure-clipboard/src/clipboard"
)

const (
	EnvFileEnvVar            = "SECURE_CLIPBOARD_ENV"
	BackendEnvVar            = "CLIPBOARD_BACKEND"
	DefaultExpirationEnvVar  = "DEFAULT_EXPIRATION_MS"
	EnableFileLoggingEnvVar  = "ENABLE_FILE_LOGGING"
	PanicHotkeyEnvVar        = "PANIC_HOTKEY"
	EnableTrayEnvVar         = "ENABLE_TRAY"
	DefaultCallTimeoutSecEnv = "CALL_TIMEOUT_SEC"
)

type LoadOptions struct {
	BackendOverride      string
	ExpirationMsOverride *int64
	HotkeyOverride       string
}

type Config struct {
	Backend             string
	DefaultExpirationMs int64
	EnableFileLogging   bool
	PanicHotkey         string
	EnableTray          bool
	CallTimeoutSec      int
	EnvPath             string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, the file named by SECURE_CLIPBOARD_ENV
	// Variables already present in the environment win over the file.
	envPath := resolveEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	backend, err := resolveBackend(opts)
	if err != nil {
		return nil, err
	}

	expiration, err := resolveExpiration(opts)
	if err != nil {
		return nil, err
	}

	callTimeout := 5
	if v := os.Getenv(DefaultCallTimeoutSecEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			callTimeout = n
		}
	}

	hotkey := strings.TrimSpace(os.Getenv(PanicHotkeyEnvVar))
	if o := strings.TrimSpace(opts.HotkeyOverride); o != "" {
		hotkey = o
	}

	cfg := &Config{
		Backend:             backend,
		DefaultExpirationMs: expiration,
		EnableFileLogging:   strings.ToLower(os.Getenv(EnableFileLoggingEnvVar)) == "true",
		PanicHotkey:         hotkey,
		EnableTray:          getEnvWithDefault(EnableTrayEnvVar, "true") == "true",
		CallTimeoutSec:      callTimeout,
		EnvPath:             envPath,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveBackend(opts LoadOptions) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv(BackendEnvVar)))
	if o := strings.ToLower(strings.TrimSpace(opts.BackendOverride)); o != "" {
		backend = o
	}
	if backend == "" {
		return clipboard.BackendDesign, nil
	}
	for _, b := range clipboard.Backends() {
		if b == backend {
			return backend, nil
		}
	}
	return "", fmt.Errorf("%s=%q is not one of %s", BackendEnvVar, backend, strings.Join(clipboard.Backends(), ", "))
}

func resolveExpiration(opts LoadOptions) (int64, error) {
	if opts.ExpirationMsOverride != nil {
		if *opts.ExpirationMsOverride < 0 {
			return 0, fmt.Errorf("expiration must be >= 0, got %d", *opts.ExpirationMsOverride)
		}
		return *opts.ExpirationMsOverride, nil
	}
	v := strings.TrimSpace(os.Getenv(DefaultExpirationEnvVar))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", DefaultExpirationEnvVar, v)
	}
	return n, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.ToLower(strings.TrimSpace(os.Getenv(key))); value != "" {
		return value
	}
	return defaultValue
}
