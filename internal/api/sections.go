package api

import (
	"context"
	"slices"
)

// GetSections lists the sections of a topic in source order.
func (c *Client) GetSections(ctx context.Context, topicID ID) ([]Section, error) {
	data, err := c.get(ctx, "/sections/topic/"+escapeID(topicID))
	if err != nil {
		return nil, err
	}
	return decodeList[Section](data)
}

// SortSections returns a copy of sections ordered by OrderIndex ascending.
// Equal indexes keep their source order.
func SortSections(sections []Section) []Section {
	out := slices.Clone(sections)
	slices.SortStableFunc(out, func(a, b Section) int {
		return a.OrderIndex - b.OrderIndex
	})
	return out
}
