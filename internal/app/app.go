// Package app wires configuration into a ready executor. Every binary goes
// through BuildExecutor so the guard chain and evaluator selection stay
// identical across surfaces.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/upflame/toolgate/pkg/config"
	"github.com/upflame/toolgate/pkg/evaluator"
	"github.com/upflame/toolgate/pkg/exec"
	"github.com/upflame/toolgate/pkg/executor"
	"github.com/upflame/toolgate/pkg/safety"
)

// BuildExecutor assembles the guard, evaluator, and command runner from
// configuration and returns the dispatcher.
func BuildExecutor(cfg *config.Config, logger *slog.Logger) (*executor.Executor, error) {
	var guard safety.Guard = safety.NewEnvGuard()
	runner := &exec.SafeExecutor{
		Timeout:   cfg.Exec.TimeoutDuration(),
		MaxOutput: cfg.Exec.MaxOutput,
		Blocklist: cfg.Exec.Blocklist,
	}

	var policy *safety.Policy
	if cfg.PolicyPath != "" {
		loaded, err := safety.LoadPolicy(cfg.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("load policy: %w", err)
		}
		policy = loaded
		runner.Blocklist = append(runner.Blocklist, policy.BlockedCommands...)
		if policy.Limits.TimeoutSeconds > 0 {
			runner.Timeout = time.Duration(policy.Limits.TimeoutSeconds) * time.Second
		}
		if policy.Limits.MaxOutputBytes > 0 {
			runner.MaxOutput = policy.Limits.MaxOutputBytes
		}
	}

	eval, err := buildEvaluator(cfg.Evaluator)
	if err != nil {
		return nil, err
	}

	exe := executor.NewDefault(guard, eval, runner)
	if policy != nil {
		exe.SetPolicy(policy)
	}
	if logger != nil {
		exe.SetLogger(logger)
		exe.SetAudit(&safety.LogRecorder{Logger: logger})
	}
	return exe, nil
}

func buildEvaluator(cfg config.EvaluatorConfig) (evaluator.Evaluator, error) {
	switch cfg.Kind {
	case "", "subprocess":
		sub := evaluator.NewSubprocess(cfg.Interpreter)
		if d := cfg.TimeoutDuration(); d > 0 {
			sub.Timeout = d
		}
		return sub, nil
	case "lua":
		return evaluator.NewLua(), nil
	default:
		return nil, fmt.Errorf("unknown evaluator kind %q", cfg.Kind)
	}
}
