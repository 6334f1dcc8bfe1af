package evaluator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Shopify/go-lua"
)

// Lua evaluates code with an embedded Lua interpreter. Every Eval builds a
// fresh state with only the base, string, table, and math libraries opened
// (no os or io access) and rebinds print to the caller's sink, so nothing
// leaks between invocations and no process-global stream is redirected.
//
// This is the development and testing evaluator. Arbitrary in-process code
// cannot be contained; production hosts should prefer Subprocess, which
// isolates evaluation behind a process boundary.
type Lua struct{}

// NewLua returns an embedded Lua evaluator.
func NewLua() *Lua { return &Lua{} }

func (e *Lua) Eval(ctx context.Context, code string, stdout io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state := lua.NewState()
	lua.Require(state, "_G", lua.BaseOpen, true)
	lua.Require(state, "string", lua.StringOpen, true)
	lua.Require(state, "table", lua.TableOpen, true)
	lua.Require(state, "math", lua.MathOpen, true)
	state.SetTop(0)

	// Module-identity marker, the only ambient binding evaluated code gets
	// beyond the opened libraries.
	state.PushString("main")
	state.SetGlobal("_NAME")

	state.Register("print", func(l *lua.State) int {
		top := l.Top()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			if s, ok := l.ToString(i); ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, fmt.Sprint(l.ToValue(i)))
			}
		}
		fmt.Fprintln(stdout, strings.Join(parts, "\t"))
		return 0
	})

	if err := lua.LoadString(state, code); err != nil {
		return fmt.Errorf("%s", luaErrorText(state, err))
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("%s", luaErrorText(state, err))
	}
	return nil
}

// luaErrorText prefers the message the interpreter left on the stack, which
// carries chunk name and line information.
func luaErrorText(state *lua.State, err error) string {
	if state.Top() > 0 {
		if msg, ok := state.ToString(-1); ok && msg != "" {
			state.Pop(1)
			return msg
		}
	}
	return err.Error()
}
