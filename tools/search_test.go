package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakingread/analyst/llm"
	"github.com/breakingread/analyst/search"
)

type fakeProvider struct {
	results []search.Result
	err     error
	queries []string
}

func (p *fakeProvider) Search(_ context.Context, query string) ([]search.Result, error) {
	p.queries = append(p.queries, query)
	return p.results, p.err
}

func TestSearchTool_Execute(t *testing.T) {
	provider := &fakeProvider{results: []search.Result{
		{Title: "PIRLS 2021", URL: "https://example.org/pirls", Snippet: "Reading study"},
	}}
	tool := NewSearchTool(provider)

	result, err := tool.Execute(context.Background(),
		json.RawMessage(`{"query": "PIRLS 2021 results", "num_results": 3}`))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, []string{"PIRLS 2021 results"}, provider.queries)

	var decoded []search.Result
	require.NoError(t, json.Unmarshal([]byte(llm.TextContent(result.Content)), &decoded))
	assert.Equal(t, provider.results, decoded)
}

func TestSearchTool_ProviderErrorIsObservable(t *testing.T) {
	tool := NewSearchTool(&fakeProvider{err: errors.New("rate limited")})

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query": "anything"}`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, llm.TextContent(result.Content), "search failed")
}

func TestSearchTool_EmptyQuery(t *testing.T) {
	tool := NewSearchTool(&fakeProvider{})

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query": ""}`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
