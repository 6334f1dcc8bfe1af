// Package config loads gateway settings from a YAML file with environment
// overrides. The safety gate flag is deliberately absent here: the guard
// re-reads the environment on every gated call and must never be cached.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config defines runtime settings for toolgate.
type Config struct {
	LogLevel   string `yaml:"logLevel" env:"TOOLGATE_LOG_LEVEL"`
	LogFormat  string `yaml:"logFormat" env:"TOOLGATE_LOG_FORMAT"`
	PolicyPath string `yaml:"policyPath" env:"TOOLGATE_POLICY"`

	HTTP      HTTPConfig      `yaml:"http"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Exec      ExecConfig      `yaml:"exec"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"TOOLGATE_HTTP_ADDR"`
}

type GatewayConfig struct {
	Address      string   `yaml:"address" env:"TOOLGATE_GATEWAY_ADDR"`
	AllowedAddrs []string `yaml:"allowedAddrs"`
	MaxSessions  int      `yaml:"maxSessions" env:"TOOLGATE_GATEWAY_MAX_SESSIONS"`
}

type ExecConfig struct {
	Timeout   string   `yaml:"timeout" env:"TOOLGATE_EXEC_TIMEOUT"`
	MaxOutput int      `yaml:"maxOutput" env:"TOOLGATE_EXEC_MAX_OUTPUT"`
	Blocklist []string `yaml:"blocklist"`
}

// TimeoutDuration parses the exec timeout, falling back to zero (the
// executor applies its own default) when unset or invalid.
func (c ExecConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

type EvaluatorConfig struct {
	// Kind selects the evaluation backend: "subprocess" (default) or "lua".
	Kind        string `yaml:"kind" env:"TOOLGATE_EVALUATOR"`
	Interpreter string `yaml:"interpreter" env:"TOOLGATE_INTERPRETER"`
	Timeout     string `yaml:"timeout" env:"TOOLGATE_EVALUATOR_TIMEOUT"`
}

func (c EvaluatorConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// LoadConfig loads configuration from a YAML file and environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		LogLevel: "info",
		HTTP:     HTTPConfig{Address: "localhost:8080"},
		Gateway:  GatewayConfig{Address: "localhost:9090"},
		Exec:     ExecConfig{Timeout: "10s"},
		Evaluator: EvaluatorConfig{
			Kind: "subprocess",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// DefaultConfigPath returns the default location for the config file.
func DefaultConfigPath() string {
	if path := os.Getenv("TOOLGATE_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".toolgate", "config.yaml")
}
