package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info log level, got %q", cfg.LogLevel)
	}
	if cfg.HTTP.Address != "localhost:8080" {
		t.Errorf("unexpected http address %q", cfg.HTTP.Address)
	}
	if cfg.Exec.TimeoutDuration() != 10*time.Second {
		t.Errorf("expected 10s exec timeout, got %s", cfg.Exec.TimeoutDuration())
	}
	if cfg.Evaluator.Kind != "subprocess" {
		t.Errorf("expected subprocess evaluator, got %q", cfg.Evaluator.Kind)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
logLevel: debug
http:
  address: ":9999"
exec:
  timeout: 3s
  blocklist:
    - rm
evaluator:
  kind: lua
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %q", cfg.LogLevel)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Errorf("unexpected http address %q", cfg.HTTP.Address)
	}
	if cfg.Exec.TimeoutDuration() != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.Exec.TimeoutDuration())
	}
	if len(cfg.Exec.Blocklist) != 1 || cfg.Exec.Blocklist[0] != "rm" {
		t.Errorf("unexpected blocklist %v", cfg.Exec.Blocklist)
	}
	if cfg.Evaluator.Kind != "lua" {
		t.Errorf("expected lua, got %q", cfg.Evaluator.Kind)
	}
	if cfg.Gateway.Address != "localhost:9090" {
		t.Errorf("untouched defaults must survive the file, got %q", cfg.Gateway.Address)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logLevel: debug\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TOOLGATE_LOG_LEVEL", "warn")
	t.Setenv("TOOLGATE_EVALUATOR", "lua")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env must win over file, got %q", cfg.LogLevel)
	}
	if cfg.Evaluator.Kind != "lua" {
		t.Errorf("env must override defaults, got %q", cfg.Evaluator.Kind)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTimeoutDurationInvalid(t *testing.T) {
	c := ExecConfig{Timeout: "not-a-duration"}
	if c.TimeoutDuration() != 0 {
		t.Fatalf("invalid duration must fall back to zero")
	}
}

func TestDefaultConfigPathEnv(t *testing.T) {
	t.Setenv("TOOLGATE_CONFIG", "/tmp/custom.yaml")
	if got := DefaultConfigPath(); got != "/tmp/custom.yaml" {
		t.Fatalf("expected env path, got %q", got)
	}
}
