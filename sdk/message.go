package sdk

import "context"

// SendMessage sends a text message to the active conversation
func (c *Client) SendMessage(ctx context.Context, text string) (*MessageInfo, error) {
	var result MessageInfo
	if err := c.post(ctx, "/msg/send", &SendMessageRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMessages gets the thread of a conversation
func (c *Client) GetMessages(ctx context.Context, conversationId string) ([]*MessageInfo, error) {
	params := map[string]string{"conversation_id": conversationId}
	var result MessagesResponse
	if err := c.get(ctx, "/msg/list", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// React adds a reaction token to a message of the active conversation
func (c *Client) React(ctx context.Context, index int, token string) (bool, error) {
	var result ReactResponse
	if err := c.post(ctx, "/msg/react", &ReactRequest{Index: index, Token: token}, &result); err != nil {
		return false, err
	}
	return result.Added, nil
}

// ReceiveMessage simulates an inbound message from the contact
func (c *Client) ReceiveMessage(ctx context.Context, conversationId, text string) (int, error) {
	var result ReceiveResponse
	req := &ReceiveMessageRequest{ConversationId: conversationId, Text: text}
	if err := c.post(ctx, "/msg/receive", req, &result); err != nil {
		return -1, err
	}
	return result.Index, nil
}
