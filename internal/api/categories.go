package api

import "context"

// GetCategories lists every category.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	data, err := c.get(ctx, "/categories")
	if err != nil {
		return nil, err
	}
	return decodeList[Category](data)
}
