package websearch

import (
	"context"
)

// Result is a single web search hit.
type Result struct {
	Title   string
	URL     string
	Content string
	Score   float64
}

// SearchProvider defines the contract for any web search backend
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
