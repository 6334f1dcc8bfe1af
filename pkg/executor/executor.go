// Package executor dispatches capability invocations: it resolves a tool by
// name, runs it inside a fault boundary, and normalizes the outcome into a
// uniform envelope. No fault of any kind escapes Execute; a hosting system
// can treat every invocation identically regardless of what went wrong
// inside.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/upflame/toolgate/pkg/evaluator"
	"github.com/upflame/toolgate/pkg/exec"
	"github.com/upflame/toolgate/pkg/safety"
	"github.com/upflame/toolgate/pkg/tool"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the invocation envelope. Exactly one of Result and Message is
// meaningful; Status discriminates.
type Result struct {
	Status  string `json:"status"`
	Result  string `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

// Executor resolves and runs capabilities from a fixed registry.
type Executor struct {
	registry *tool.Registry
	policy   *safety.Policy
	audit    safety.AuditRecorder
	logger   *slog.Logger
}

func New(registry *tool.Registry) *Executor {
	return &Executor{registry: registry}
}

// NewDefault wires the standard capability set: python (code evaluation),
// shell (external command), and search (stub lookup).
func NewDefault(guard safety.Guard, eval evaluator.Evaluator, runner *exec.SafeExecutor) *Executor {
	return New(tool.NewRegistry(
		tool.NewCodeTool(guard, eval),
		tool.NewShellTool(guard, runner),
		tool.NewSearchTool(),
	))
}

func (e *Executor) SetLogger(logger *slog.Logger) {
	e.logger = logger
}

func (e *Executor) SetAudit(recorder safety.AuditRecorder) {
	e.audit = recorder
}

// SetPolicy installs the execution policy. The allowlist is checked on
// every dispatch, before the handler runs, so it binds ungated tools too.
func (e *Executor) SetPolicy(policy *safety.Policy) {
	e.policy = policy
}

// Registry exposes the capability registry for surfaces that list tools.
func (e *Executor) Registry() *tool.Registry {
	return e.registry
}

// Execute dispatches one invocation and always returns an envelope. Handler
// errors and panics become error envelopes; unknown names become the
// not-found message.
func (e *Executor) Execute(ctx context.Context, name string, params map[string]interface{}) (res Result) {
	started := time.Now()
	id := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: StatusError, Message: fmt.Sprint(r)}
		}
		e.finish(id, name, res, time.Since(started))
	}()

	t, ok := e.registry.Get(name)
	if !ok {
		return Result{Status: StatusError, Message: fmt.Sprintf("Tool %s not found", name)}
	}

	if e.policy != nil && !e.policy.ToolAllowed(name) {
		return Result{Status: StatusError, Message: fmt.Sprintf("tool %s not permitted by policy", name)}
	}

	output, err := t.Execute(ctx, params)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	return Result{Status: StatusSuccess, Result: output}
}

func (e *Executor) finish(id, name string, res Result, elapsed time.Duration) {
	if e.audit != nil {
		_ = e.audit.Record(safety.AuditEvent{ID: id, Tool: name, Status: res.Status, Elapsed: elapsed})
	}
	if e.logger != nil {
		e.logger.Debug("dispatch", "id", id, "tool", name, "status", res.Status, "elapsed_ms", elapsed.Milliseconds())
	}
}
