// Package evaluator provides the pluggable code-evaluation backends used by
// the code capability. An Evaluator receives program text and an explicit
// output sink; it never touches the process-wide standard output stream.
package evaluator

import (
	"context"
	"io"
)

// Evaluator runs a standalone program and writes everything the program
// prints to stdout. A returned error describes an evaluation fault; the
// caller decides how faults surface.
type Evaluator interface {
	Eval(ctx context.Context, code string, stdout io.Writer) error
}
