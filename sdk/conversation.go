package sdk

import (
	"context"
	"strconv"
)

// GetConversationList gets the derived conversation list; an empty query uses the session query
func (c *Client) GetConversationList(ctx context.Context, query string) ([]*ConversationInfo, error) {
	var params map[string]string
	if query != "" {
		params = map[string]string{"q": query}
	}

	var result []*ConversationInfo
	if err := c.get(ctx, "/conversation/list", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetRecentContacts gets the most recently opened conversations
func (c *Client) GetRecentContacts(ctx context.Context, limit int) ([]*ConversationInfo, error) {
	var params map[string]string
	if limit > 0 {
		params = map[string]string{"limit": strconv.Itoa(limit)}
	}

	var result []*ConversationInfo
	if err := c.get(ctx, "/conversation/recent", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetConversation gets a specific conversation
func (c *Client) GetConversation(ctx context.Context, conversationId string) (*ConversationInfo, error) {
	params := map[string]string{"conversation_id": conversationId}
	var result ConversationInfo
	if err := c.get(ctx, "/conversation/info", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OpenConversation selects a conversation
func (c *Client) OpenConversation(ctx context.Context, conversationId string) (*SessionInfo, error) {
	var result SessionInfo
	if err := c.post(ctx, "/conversation/open", &ConversationIdRequest{ConversationId: conversationId}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CloseConversation clears the selection
func (c *Client) CloseConversation(ctx context.Context) (*SessionInfo, error) {
	var result SessionInfo
	if err := c.post(ctx, "/conversation/close", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search sets the session query and returns the filtered list
func (c *Client) Search(ctx context.Context, query string) ([]*ConversationInfo, error) {
	var result []*ConversationInfo
	if err := c.post(ctx, "/conversation/search", &SearchRequest{Query: query}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteConversation removes a conversation
func (c *Client) DeleteConversation(ctx context.Context, conversationId string) error {
	return c.post(ctx, "/conversation/delete", &ConversationIdRequest{ConversationId: conversationId}, nil)
}

// SetPresence flips the online indicator of a contact
func (c *Client) SetPresence(ctx context.Context, conversationId string, online bool) error {
	return c.post(ctx, "/conversation/presence", &PresenceRequest{ConversationId: conversationId, Online: online}, nil)
}
