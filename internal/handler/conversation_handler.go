package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/mbeoliero/threadly/internal/service"
	"github.com/mbeoliero/threadly/pkg/errcode"
	"github.com/mbeoliero/threadly/pkg/response"
)

// ConversationHandler handles conversation-related requests
type ConversationHandler struct {
	chatService *service.ChatService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(chatService *service.ChatService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService}
}

// ConversationIdRequest carries a single conversation id
type ConversationIdRequest struct {
	ConversationId string `json:"conversation_id"`
}

// PresenceRequest sets the online flag of a contact
type PresenceRequest struct {
	ConversationId string `json:"conversation_id"`
	Online         bool   `json:"online"`
}

// SearchRequest represents search request
type SearchRequest struct {
	Query string `json:"query"`
}

// GetConversationList handles get conversation list request.
// Without q the session query is used.
func (h *ConversationHandler) GetConversationList(ctx context.Context, c *app.RequestContext) {
	if q, ok := c.GetQuery("q"); ok {
		response.Success(ctx, c, h.chatService.ViewFor(q))
		return
	}
	response.Success(ctx, c, h.chatService.View())
}

// GetRecentContacts handles recent contacts request
func (h *ConversationHandler) GetRecentContacts(ctx context.Context, c *app.RequestContext) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
			return
		}
		limit = n
	}

	response.Success(ctx, c, h.chatService.Recent(limit))
}

// GetConversation handles get single conversation request
func (h *ConversationHandler) GetConversation(ctx context.Context, c *app.RequestContext) {
	conversationId := c.Query("conversation_id")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.chatService.Conversation(conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, conv)
}

// OpenConversation handles open conversation request
func (h *ConversationHandler) OpenConversation(ctx context.Context, c *app.RequestContext) {
	var req ConversationIdRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.chatService.OpenConversation(ctx, req.ConversationId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, h.chatService.State())
}

// CloseConversation handles close conversation request
func (h *ConversationHandler) CloseConversation(ctx context.Context, c *app.RequestContext) {
	h.chatService.CloseConversation(ctx)
	response.Success(ctx, c, h.chatService.State())
}

// Search handles search query update request
func (h *ConversationHandler) Search(ctx context.Context, c *app.RequestContext) {
	var req SearchRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	h.chatService.Search(ctx, req.Query)
	response.Success(ctx, c, h.chatService.View())
}

// DeleteConversation handles delete conversation request
func (h *ConversationHandler) DeleteConversation(ctx context.Context, c *app.RequestContext) {
	var req ConversationIdRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.chatService.DeleteConversation(ctx, req.ConversationId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// SetPresence handles simulated presence change request
func (h *ConversationHandler) SetPresence(ctx context.Context, c *app.RequestContext) {
	var req PresenceRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.chatService.SetPresence(ctx, req.ConversationId, req.Online); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
