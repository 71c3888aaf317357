package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/llm"
	"github.com/breakingread/analyst/search"
)

// SearchTool answers questions the dataset cannot by delegating to an
// external search provider.
type SearchTool struct {
	provider search.Provider
}

// NewSearchTool creates a web search tool over the given provider.
func NewSearchTool(provider search.Provider) *SearchTool {
	return &SearchTool{provider: provider}
}

func (t *SearchTool) Name() string {
	return SearchToolName
}

func (t *SearchTool) Description() string {
	return "Search the internet and return top results. Use this for information not present in the PIRLS 2021 dataset."
}

func (t *SearchTool) Parameters() llm.JSONSchema {
	return llm.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search term or question to query.",
			},
			"num_results": map[string]any{
				"type":        "integer",
				"description": "Number of search results to return (default 5).",
			},
		},
		"required": []string{"query"},
	}
}

type searchParams struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

// Execute runs the search. num_results is part of the declared contract,
// but the provider's result ceiling is fixed independent of it.
func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) (agent.ToolResult, error) {
	var params searchParams
	if err := json.Unmarshal(args, &params); err != nil {
		return agent.ErrorResult(fmt.Sprintf("invalid search arguments: %v", err)), nil
	}
	if params.Query == "" {
		return agent.ErrorResult("query is empty"), nil
	}

	results, err := t.provider.Search(ctx, params.Query)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("search failed: %v", err)), nil
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("search failed: %v", err)), nil
	}

	return agent.TextResult(string(payload)), nil
}
