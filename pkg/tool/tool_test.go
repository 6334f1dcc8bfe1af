package tool

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/upflame/toolgate/pkg/evaluator"
	"github.com/upflame/toolgate/pkg/exec"
	"github.com/upflame/toolgate/pkg/safety"
)

func enabledGuard() safety.Guard {
	return &safety.EnvGuard{Flag: safety.DefaultFlag, Lookup: func(string) (string, bool) {
		return "true", true
	}}
}

func disabledGuard() safety.Guard {
	return &safety.EnvGuard{Flag: safety.DefaultFlag, Lookup: func(string) (string, bool) {
		return "", false
	}}
}

func TestRegistryFixedLookup(t *testing.T) {
	r := NewRegistry(NewSearchTool())
	if _, ok := r.Get("search"); !ok {
		t.Fatalf("expected search tool")
	}
	if _, ok := r.Get("nope"); ok {
		t.Fatalf("unknown name must report false")
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected one tool")
	}
}

func TestCodeToolCapturesOutput(t *testing.T) {
	code := NewCodeTool(enabledGuard(), evaluator.NewLua())
	out, err := code.Execute(context.Background(), map[string]interface{}{"code": `print("hello")`})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", out)
	}
}

func TestCodeToolFaultBecomesText(t *testing.T) {
	code := NewCodeTool(enabledGuard(), evaluator.NewLua())
	out, err := code.Execute(context.Background(), map[string]interface{}{"code": `error("boom")`})
	if err != nil {
		t.Fatalf("faults must not raise: %v", err)
	}
	if !strings.Contains(out, "boom") {
		t.Fatalf("fault text expected in result, got %q", out)
	}
}

type recordingEvaluator struct {
	called bool
}

func (r *recordingEvaluator) Eval(ctx context.Context, code string, stdout io.Writer) error {
	r.called = true
	return nil
}

func TestCodeToolDisabledGateShortCircuits(t *testing.T) {
	rec := &recordingEvaluator{}
	code := NewCodeTool(disabledGuard(), rec)
	out, err := code.Execute(context.Background(), map[string]interface{}{"code": `print("never")`})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, safety.DefaultFlag) {
		t.Fatalf("disabled message should name the flag, got %q", out)
	}
	if rec.called {
		t.Fatalf("evaluator must not run while the gate is disabled")
	}
}

func TestCodeToolMissingParamDefaultsEmpty(t *testing.T) {
	code := NewCodeTool(enabledGuard(), evaluator.NewLua())
	out, err := code.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Fatalf("empty code should produce empty output, got %q", out)
	}
}

func TestShellToolRunsCommand(t *testing.T) {
	shell := NewShellTool(enabledGuard(), &exec.SafeExecutor{Timeout: 2 * time.Second})
	out, err := shell.Execute(context.Background(), map[string]interface{}{"command": "echo ok"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "ok") {
		t.Fatalf("expected ok in output, got %q", out)
	}
}

func TestShellToolMissingCommandYieldsEmptyOutput(t *testing.T) {
	shell := NewShellTool(enabledGuard(), &exec.SafeExecutor{Timeout: 2 * time.Second})
	out, err := shell.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Fatalf("absent command defaults to empty output, got %q", out)
	}
}

func TestShellToolDisabledGateNoSideEffect(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")
	shell := NewShellTool(disabledGuard(), &exec.SafeExecutor{Timeout: 2 * time.Second})
	out, err := shell.Execute(context.Background(), map[string]interface{}{"command": "touch " + marker})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, safety.DefaultFlag) {
		t.Fatalf("disabled message expected, got %q", out)
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Fatalf("no process may run while the gate is disabled")
	}
}

func TestShellToolTimeoutBecomesText(t *testing.T) {
	shell := NewShellTool(enabledGuard(), &exec.SafeExecutor{Timeout: 50 * time.Millisecond})
	out, err := shell.Execute(context.Background(), map[string]interface{}{"command": "sleep 5"})
	if err != nil {
		t.Fatalf("timeouts must not raise: %v", err)
	}
	if !strings.Contains(out, "timed out") {
		t.Fatalf("expected timeout text, got %q", out)
	}
}

func TestShellToolMetacharactersStayLiteral(t *testing.T) {
	shell := NewShellTool(enabledGuard(), &exec.SafeExecutor{Timeout: 2 * time.Second})
	out, err := shell.Execute(context.Background(), map[string]interface{}{"command": `echo "; rm -rf /"`})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "; rm -rf /") {
		t.Fatalf("metacharacters must pass through as literal text, got %q", out)
	}
}

func TestSearchToolIsPure(t *testing.T) {
	search := NewSearchTool()
	params := map[string]interface{}{"query": "golang"}
	first, err := search.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	second, err := search.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if first != second {
		t.Fatalf("search must be idempotent: %q vs %q", first, second)
	}
	if first != "Results for golang: [Mock Data]" {
		t.Fatalf("unexpected template: %q", first)
	}
}

func TestStringParamRendersNonStrings(t *testing.T) {
	if got := stringParam(map[string]interface{}{"code": 42}, "code"); got != "42" {
		t.Fatalf("expected rendered value, got %q", got)
	}
	if got := stringParam(nil, "code"); got != "" {
		t.Fatalf("absent key must default empty, got %q", got)
	}
}
