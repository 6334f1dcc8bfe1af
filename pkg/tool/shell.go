package tool

import (
	"context"
	"errors"
	"strings"

	"github.com/upflame/toolgate/pkg/exec"
	"github.com/upflame/toolgate/pkg/safety"
)

// ShellTool runs an external command through the safe executor: argument
// vector only, no shell interpreter, bounded by the executor's wall-clock
// timeout. Process faults and timeouts are returned as result text, never
// raised past the handler.
type ShellTool struct {
	guard  safety.Guard
	runner *exec.SafeExecutor
}

func NewShellTool(guard safety.Guard, runner *exec.SafeExecutor) *ShellTool {
	if runner == nil {
		runner = &exec.SafeExecutor{}
	}
	return &ShellTool{guard: guard, runner: runner}
}

func (t *ShellTool) Name() string { return "shell" }

func (t *ShellTool) Description() string {
	return "Run an external command without a shell and return its combined output"
}

func (t *ShellTool) Gated() bool { return true }

func (t *ShellTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]string{
				"type":        "string",
				"description": "Command line, split with shell-word rules and executed as an argument vector",
			},
		},
		"required": []string{"command"},
	}
}

func (t *ShellTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	command := stringParam(params, "command")

	if err := t.guard.CheckTool(ctx, t.Name()); err != nil {
		var disabled safety.DisabledError
		if errors.As(err, &disabled) {
			return disabled.Error(), nil
		}
		return "", err
	}

	// Absent command defaults to a neutral value: nothing to run, empty
	// output.
	if strings.TrimSpace(command) == "" {
		return "", nil
	}

	res, err := t.runner.Run(ctx, command)
	if err != nil {
		return err.Error(), nil
	}
	return res.Combined(), nil
}
