package evaluator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// DefaultInterpreter is the interpreter binary Subprocess falls back to.
const DefaultInterpreter = "python3"

// Subprocess evaluates code by handing it to an external interpreter as a
// child process; the process boundary is the isolation primitive. Program
// stdout streams to the sink, stderr is held back and becomes the fault
// text when the interpreter exits non-zero.
//
// Timeout zero means unbounded, matching the dispatch core's contract that
// the hosting system imposes its own bound on code evaluation.
type Subprocess struct {
	Interpreter string
	Timeout     time.Duration
}

// NewSubprocess returns a subprocess evaluator for the given interpreter
// binary, defaulting to python3.
func NewSubprocess(interpreter string) *Subprocess {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	return &Subprocess{Interpreter: interpreter}
}

func (e *Subprocess) Eval(ctx context.Context, code string, stdout io.Writer) error {
	interpreter := e.Interpreter
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, interpreter, "-c", code)
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("evaluation timed out after %s", e.Timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("run %s: %w", interpreter, err)
	}
	return nil
}
