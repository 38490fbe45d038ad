package api

import (
	"context"
	"strconv"
	"strings"
)

// DefaultSearchLimit caps hits per search when the caller passes no limit.
const DefaultSearchLimit = 20

// Search runs a relevance-ranked search across categories, topics and sections.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	path := buildQuery("/search/", QueryParams{
		"q":     strings.TrimSpace(query),
		"limit": strconv.Itoa(limit),
	})
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeOne[SearchResponse](data)
}
