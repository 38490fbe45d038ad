package api

import "context"

// Health checks that the backend answers. The categories endpoint doubles as the
// health probe since the backend exposes no dedicated one.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, "/categories")
	return err
}
