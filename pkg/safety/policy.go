package safety

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy is the operator-supplied execution policy. An empty allowlist
// permits every registered tool; the environment gate still applies. The
// allowlist is enforced at the dispatch boundary so it covers every tool,
// gated or not.
type Policy struct {
	AllowedTools    []string `yaml:"allowed_tools"`
	BlockedCommands []string `yaml:"blocked_commands"`
	Limits          Limits   `yaml:"limits"`
}

// Limits bounds a single invocation.
type Limits struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxOutputBytes int `yaml:"max_output_bytes"`
}

// LoadPolicy reads a YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy config: %w", err)
	}
	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse policy config: %w", err)
	}
	return &policy, nil
}

// ToolAllowed reports whether name passes the allowlist. Patterns support a
// trailing "*" prefix match.
func (p *Policy) ToolAllowed(name string) bool {
	if p == nil || len(p.AllowedTools) == 0 {
		return true
	}
	for _, pattern := range p.AllowedTools {
		if matchPattern(pattern, name) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, value string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(value, strings.TrimSuffix(pattern, "*"))
	default:
		return pattern == value
	}
}
