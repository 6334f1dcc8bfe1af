package tool

import (
	"bytes"
	"context"
	"errors"

	"github.com/upflame/toolgate/pkg/evaluator"
	"github.com/upflame/toolgate/pkg/safety"
)

// CodeTool evaluates a code snippet with the configured evaluator and
// returns whatever the program wrote to its standard output. Evaluation
// faults become the result text so a broken snippet is visible to the
// caller instead of aborting dispatch.
type CodeTool struct {
	guard     safety.Guard
	evaluator evaluator.Evaluator
}

func NewCodeTool(guard safety.Guard, eval evaluator.Evaluator) *CodeTool {
	return &CodeTool{guard: guard, evaluator: eval}
}

func (t *CodeTool) Name() string { return "python" }

func (t *CodeTool) Description() string {
	return "Evaluate a code snippet in an isolated interpreter and return its standard output"
}

func (t *CodeTool) Gated() bool { return true }

func (t *CodeTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"code": map[string]string{
				"type":        "string",
				"description": "Program text to evaluate",
			},
		},
		"required": []string{"code"},
	}
}

func (t *CodeTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	code := stringParam(params, "code")

	// Gate check happens before the evaluator sees anything.
	if err := t.guard.CheckTool(ctx, t.Name()); err != nil {
		var disabled safety.DisabledError
		if errors.As(err, &disabled) {
			return disabled.Error(), nil
		}
		return "", err
	}

	var out bytes.Buffer
	if err := t.evaluator.Eval(ctx, code, &out); err != nil {
		return err.Error(), nil
	}
	return out.String(), nil
}
