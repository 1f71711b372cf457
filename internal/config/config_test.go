package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
api:
  base_url: https://workouts.example.com
  timeout_seconds: 10
state:
  dir: /tmp/replog-test
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

// TestLoad verifies a valid file populates every section.
func TestLoad(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://workouts.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want 10", cfg.API.TimeoutSeconds)
	}
	if cfg.State.Dir != "/tmp/replog-test" {
		t.Errorf("state dir = %q", cfg.State.Dir)
	}
}

// TestLoadMissingFile verifies a missing file is tolerated when env vars
// supply the base URL.
func TestLoadMissingFile(t *testing.T) {
	t.Setenv("REPLOG_API_BASE_URL", "https://env.example.com")
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != defaultTimeoutSeconds {
		t.Errorf("timeout = %d, want default %d", cfg.API.TimeoutSeconds, defaultTimeoutSeconds)
	}
}

// TestLoadMissingBaseURL verifies startup refuses to proceed without a base
// URL from any source.
func TestLoadMissingBaseURL(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

// TestLoadEnvOverrides verifies env vars win over file values.
func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REPLOG_API_BASE_URL", "https://override.example.com")
	t.Setenv("REPLOG_API_TIMEOUT", "5")
	t.Setenv("REPLOG_STATE_DIR", "/tmp/replog-env")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://override.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d, want 5", cfg.API.TimeoutSeconds)
	}
	if cfg.State.Dir != "/tmp/replog-env" {
		t.Errorf("state dir = %q", cfg.State.Dir)
	}
}

// TestLoadInvalidYAML verifies a present but unparseable file is fatal.
func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeTemp(t, "api: [not a mapping"))
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

// TestLoadNegativeTimeout verifies a negative timeout fails validation.
func TestLoadNegativeTimeout(t *testing.T) {
	_, err := Load(writeTemp(t, `
api:
  base_url: https://workouts.example.com
  timeout_seconds: -1
`))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}
