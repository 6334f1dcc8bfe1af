package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"time"

	"github.com/upflame/toolgate/pkg/executor"
)

// Session tracks a single client connection.
type Session struct {
	ID         string
	RemoteAddr string
	StartedAt  time.Time

	conn net.Conn
}

// Request is one line of the wire protocol: a newline-delimited JSON
// invocation. ID is echoed back so clients can pipeline.
type Request struct {
	ID     string                 `json:"id,omitempty"`
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Response pairs the request ID with the invocation envelope.
type Response struct {
	ID string `json:"id,omitempty"`
	executor.Result
}

// serve reads invocations line by line until the client disconnects or the
// context ends. Malformed lines get an error envelope instead of killing
// the session.
func serve(ctx context.Context, exec *executor.Executor, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := Response{Result: executor.Result{Status: executor.StatusError, Message: "malformed request: " + err.Error()}}
			if err := enc.Encode(resp); err != nil {
				return err
			}
			continue
		}

		resp := Response{ID: req.ID, Result: exec.Execute(ctx, req.Tool, req.Params)}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}
