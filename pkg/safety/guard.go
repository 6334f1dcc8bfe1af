// Package safety gates side-effecting capabilities behind an explicit
// process-environment switch and records an audit trail of invocations.
package safety

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// DefaultFlag is the environment variable controlling the execution gate.
const DefaultFlag = "TOOLGATE_EXECUTION_ENABLED"

// Guard decides whether a capability may run. Gated tools consult the guard
// before any side effect: before a process is spawned or code is evaluated.
type Guard interface {
	CheckTool(ctx context.Context, name string) error
}

// DisabledError reports a gated tool refused because the gate is off. Its
// text doubles as the user-facing disabled message.
type DisabledError struct {
	Flag string
}

func (e DisabledError) Error() string {
	return fmt.Sprintf("code and command execution is disabled; set %s=true to enable it", e.Flag)
}

// EnvGuard reads the gate flag from the environment on every check, never
// caching, so the gate can be flipped between invocations without a restart.
// Only a case-insensitive "true" enables execution; any other value,
// including absence, means disabled.
type EnvGuard struct {
	Flag   string
	Lookup func(key string) (string, bool)
}

// NewEnvGuard returns a guard on the default flag backed by the process
// environment.
func NewEnvGuard() *EnvGuard {
	return &EnvGuard{Flag: DefaultFlag, Lookup: os.LookupEnv}
}

// Enabled reports the current gate state.
func (g *EnvGuard) Enabled() bool {
	flag := g.Flag
	if flag == "" {
		flag = DefaultFlag
	}
	lookup := g.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(flag)
	return ok && strings.EqualFold(value, "true")
}

func (g *EnvGuard) CheckTool(ctx context.Context, name string) error {
	if !g.Enabled() {
		flag := g.Flag
		if flag == "" {
			flag = DefaultFlag
		}
		return DisabledError{Flag: flag}
	}
	return nil
}

// NoopGuard allows everything. Used where the host takes over gating.
type NoopGuard struct{}

func NewNoop() *NoopGuard { return &NoopGuard{} }

func (g *NoopGuard) CheckTool(ctx context.Context, name string) error {
	return nil
}
