// Package mcp exposes the capability registry as a Model Context Protocol
// server over stdio. Success envelopes become text content; error envelopes
// become tool errors with IsError set.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/upflame/toolgate/pkg/executor"
	"github.com/upflame/toolgate/pkg/version"
)

const serverName = "toolgate"

// CodeInput is the typed argument set for the python tool.
type CodeInput struct {
	Code string `json:"code" jsonschema:"code to evaluate"`
}

// CommandInput is the typed argument set for the shell tool.
type CommandInput struct {
	Command string `json:"command" jsonschema:"command line to run without a shell"`
}

// QueryInput is the typed argument set for the search tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"search query"`
}

// NewServer builds an MCP server with the three capabilities registered.
func NewServer(exec *executor.Executor) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "python",
		Description: "Evaluate a code snippet and return its output",
	}, codeHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shell",
		Description: "Run an external command without shell interpretation",
	}, commandHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Look up a query against the configured search backend",
	}, queryHandler(exec))

	return server
}

// Run serves the server over stdio until the context ends.
func Run(ctx context.Context, exec *executor.Executor) error {
	return NewServer(exec).Run(ctx, &mcp.StdioTransport{})
}

func codeHandler(exec *executor.Executor) mcp.ToolHandlerFor[CodeInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CodeInput) (*mcp.CallToolResult, any, error) {
		res := exec.Execute(ctx, "python", map[string]interface{}{"code": input.Code})
		return toCallResult(res), nil, nil
	}
}

func commandHandler(exec *executor.Executor) mcp.ToolHandlerFor[CommandInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, any, error) {
		res := exec.Execute(ctx, "shell", map[string]interface{}{"command": input.Command})
		return toCallResult(res), nil, nil
	}
}

func queryHandler(exec *executor.Executor) mcp.ToolHandlerFor[QueryInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, any, error) {
		res := exec.Execute(ctx, "search", map[string]interface{}{"query": input.Query})
		return toCallResult(res), nil, nil
	}
}

func toCallResult(res executor.Result) *mcp.CallToolResult {
	if res.Status == executor.StatusError {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: res.Message}},
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Result}},
	}
}
