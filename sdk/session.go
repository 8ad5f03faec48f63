package sdk

import (
	"context"
	"strconv"
)

// GetSession gets the selection state; width > 0 also resolves the layout
func (c *Client) GetSession(ctx context.Context, width int) (*SessionInfo, error) {
	var params map[string]string
	if width > 0 {
		params = map[string]string{"width": strconv.Itoa(width)}
	}

	var result SessionInfo
	if err := c.get(ctx, "/session", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetEmojiPalette gets the configured reaction tokens
func (c *Client) GetEmojiPalette(ctx context.Context) ([]string, error) {
	var result PaletteResponse
	if err := c.get(ctx, "/emoji/palette", nil, &result); err != nil {
		return nil, err
	}
	return result.Palette, nil
}

// Health checks the server is up
func (c *Client) Health(ctx context.Context) error {
	var result map[string]string
	return c.get(ctx, "/health", nil, &result)
}
