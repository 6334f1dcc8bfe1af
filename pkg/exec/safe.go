package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
)

// DefaultTimeout bounds a command when the executor has no explicit timeout.
const DefaultTimeout = 10 * time.Second

// Result captures the observable outcome of a finished command.
type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	return r.Stdout + r.Stderr
}

// SafeExecutor runs a command line as a child process with no shell
// interpreter involved. The command string is split with shell-word rules
// (quoting honored, no metacharacter interpretation) and executed as an
// argument vector, so pipes, redirects, and substitutions stay literal text.
type SafeExecutor struct {
	Timeout   time.Duration
	MaxOutput int
	Blocklist []string
}

// TimeoutError reports a command killed because its wall-clock bound expired.
type TimeoutError struct {
	Command string
	Limit   time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Limit, e.Command)
}

// OutputTruncatedError reports output clipped at MaxOutput bytes.
type OutputTruncatedError struct {
	Limit int
}

func (e OutputTruncatedError) Error() string {
	return fmt.Sprintf("output truncated at %d bytes", e.Limit)
}

// Run executes command and waits for it to finish. The child is killed when
// the timeout expires or ctx is cancelled; Run never leaves a process behind.
// A non-zero exit is not an error: callers read Result.Code.
func (e *SafeExecutor) Run(ctx context.Context, command string) (*Result, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("command is required")
	}

	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("split command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("command is required")
	}
	if e.isBlocked(argv[0]) {
		return nil, fmt.Errorf("command blocked: %s", argv[0])
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	stdout := &limitedBuffer{limit: e.MaxOutput}
	stderr := &limitedBuffer{limit: e.MaxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() == context.DeadlineExceeded {
		return res, TimeoutError{Command: command, Limit: timeout}
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.Code = exitErr.ExitCode()
		} else {
			return res, runErr
		}
	}

	if stdout.truncated || stderr.truncated {
		return res, OutputTruncatedError{Limit: e.MaxOutput}
	}
	return res, nil
}

func (e *SafeExecutor) isBlocked(name string) bool {
	if len(e.Blocklist) == 0 {
		return false
	}
	base := filepath.Base(name)
	for _, blocked := range e.Blocklist {
		if strings.EqualFold(blocked, name) || strings.EqualFold(blocked, base) {
			return true
		}
	}
	return false
}

type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		return l.buf.Write(p)
	}
	remaining := l.limit - l.buf.Len()
	if remaining <= 0 {
		l.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		l.truncated = true
		_, _ = l.buf.Write(p[:remaining])
		return len(p), nil
	}
	return l.buf.Write(p)
}

func (l *limitedBuffer) String() string {
	return l.buf.String()
}

var _ io.Writer = (*limitedBuffer)(nil)
