// Package tool defines the capability surface of the gateway: the Tool
// contract, the fixed registry, and the built-in handlers.
package tool

import (
	"context"
	"fmt"
)

// Tool is a named capability. Execute returns the textual result of the
// invocation; a returned error is a handler fault the dispatcher converts
// into an error envelope. Handlers validate their own parameters and treat
// absent keys as empty values.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]interface{}
	Gated() bool
	Execute(ctx context.Context, params map[string]interface{}) (string, error)
}

// stringParam extracts a string parameter, defaulting to empty when absent.
// Non-string values are rendered rather than rejected; parameter payloads
// are loosely typed at this boundary.
func stringParam(params map[string]interface{}, key string) string {
	value, ok := params[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
