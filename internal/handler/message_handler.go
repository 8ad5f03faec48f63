package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/service"
	"github.com/mbeoliero/threadly/pkg/errcode"
	"github.com/mbeoliero/threadly/pkg/response"
)

// MessageHandler handles message-related requests
type MessageHandler struct {
	chatService *service.ChatService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(chatService *service.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// SendMessageRequest represents send message request; the target is the active conversation
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ReactRequest represents add reaction request
type ReactRequest struct {
	Index int    `json:"index"`
	Token string `json:"token"`
}

// ReceiveMessageRequest represents a simulated inbound message
type ReceiveMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	Text           string `json:"text"`
}

// SendMessage handles send message request
func (h *MessageHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	var req SendMessageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	result, err := h.chatService.SendMessage(ctx, req.Text)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result.Message.ToMessageInfo(result.Index))
}

// GetMessages handles get thread request
func (h *MessageHandler) GetMessages(ctx context.Context, c *app.RequestContext) {
	conversationId := c.Query("conversation_id")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	messages, err := h.chatService.Messages(conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	infos := make([]*entity.MessageInfo, 0, len(messages))
	for i := range messages {
		infos = append(infos, messages[i].ToMessageInfo(i))
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation_id": conversationId,
		"messages":        infos,
	})
}

// React handles add reaction request
func (h *MessageHandler) React(ctx context.Context, c *app.RequestContext) {
	var req ReactRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	added, err := h.chatService.AddReaction(ctx, req.Index, req.Token)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"added": added,
	})
}

// ReceiveMessage handles simulated inbound message request
func (h *MessageHandler) ReceiveMessage(ctx context.Context, c *app.RequestContext) {
	var req ReceiveMessageRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	index, err := h.chatService.ReceiveMessage(ctx, req.ConversationId, req.Text)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"index": index,
	})
}
