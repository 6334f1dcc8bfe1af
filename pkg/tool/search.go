package tool

import (
	"context"
	"fmt"
)

// SearchTool is a stub retrieval capability: it answers every query with a
// fixed templated placeholder. It exists as the extension point for a real
// search backend and stays ungated because it has no side effects.
type SearchTool struct{}

func NewSearchTool() *SearchTool { return &SearchTool{} }

func (t *SearchTool) Name() string { return "search" }

func (t *SearchTool) Description() string {
	return "Look up a query against the configured search backend"
}

func (t *SearchTool) Gated() bool { return false }

func (t *SearchTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]string{
				"type":        "string",
				"description": "Search query",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	query := stringParam(params, "query")
	return fmt.Sprintf("Results for %s: [Mock Data]", query), nil
}
