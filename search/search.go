// Package search provides web search providers for the internet_search tool.
package search

import "context"

// Result is one ranked search result.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider executes a free-text web search.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
