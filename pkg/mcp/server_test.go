package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/upflame/toolgate/pkg/evaluator"
	"github.com/upflame/toolgate/pkg/exec"
	"github.com/upflame/toolgate/pkg/executor"
	"github.com/upflame/toolgate/pkg/safety"
)

func testExecutor(enabled bool) *executor.Executor {
	guard := &safety.EnvGuard{Flag: safety.DefaultFlag, Lookup: func(string) (string, bool) {
		if enabled {
			return "true", true
		}
		return "", false
	}}
	return executor.NewDefault(guard, evaluator.NewLua(), &exec.SafeExecutor{Timeout: 2 * time.Second})
}

func textOf(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestNewServerRegistersTools(t *testing.T) {
	if s := NewServer(testExecutor(true)); s == nil {
		t.Fatalf("expected server")
	}
}

func TestCodeHandlerSuccess(t *testing.T) {
	handler := codeHandler(testExecutor(true))
	res, _, err := handler(context.Background(), nil, CodeInput{Code: `print("hi")`})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res)
	}
	if got := textOf(t, res); got != "hi\n" {
		t.Fatalf("expected %q, got %q", "hi\n", got)
	}
}

func TestCodeHandlerDisabledGate(t *testing.T) {
	handler := codeHandler(testExecutor(false))
	res, _, err := handler(context.Background(), nil, CodeInput{Code: `print("hi")`})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("disabled gate is a handler result, not a tool error: %+v", res)
	}
	if !strings.Contains(textOf(t, res), safety.DefaultFlag) {
		t.Fatalf("disabled message should name the flag: %q", textOf(t, res))
	}
}

func TestCommandHandler(t *testing.T) {
	handler := commandHandler(testExecutor(true))
	res, _, err := handler(context.Background(), nil, CommandInput{Command: "echo ok"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError || !strings.Contains(textOf(t, res), "ok") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQueryHandler(t *testing.T) {
	handler := queryHandler(testExecutor(false))
	res, _, err := handler(context.Background(), nil, QueryInput{Query: "golang"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := textOf(t, res); got != "Results for golang: [Mock Data]" {
		t.Fatalf("unexpected template: %q", got)
	}
}

func TestToCallResultError(t *testing.T) {
	res := toCallResult(executor.Result{Status: executor.StatusError, Message: "Tool x not found"})
	if !res.IsError {
		t.Fatalf("error envelope must map to IsError")
	}
	if !strings.Contains(textOf(t, res), "not found") {
		t.Fatalf("unexpected text: %q", textOf(t, res))
	}
}
