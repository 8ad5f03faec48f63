package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/mbeoliero/threadly/internal/layout"
	"github.com/mbeoliero/threadly/internal/service"
	"github.com/mbeoliero/threadly/pkg/errcode"
	"github.com/mbeoliero/threadly/pkg/response"
)

// SessionInfo is the selection state plus the layout for the caller's viewport
type SessionInfo struct {
	service.SessionState
	Layout *layout.Model `json:"layout,omitempty"`
}

// SessionHandler exposes session state and UI configuration
type SessionHandler struct {
	chatService *service.ChatService
	resolver    *layout.Resolver
	palette     []string
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(chatService *service.ChatService, resolver *layout.Resolver, palette []string) *SessionHandler {
	return &SessionHandler{
		chatService: chatService,
		resolver:    resolver,
		palette:     palette,
	}
}

// GetSession handles get session request; width is optional
func (h *SessionHandler) GetSession(ctx context.Context, c *app.RequestContext) {
	info := SessionInfo{SessionState: h.chatService.State()}

	if s := c.Query("width"); s != "" {
		width, err := strconv.Atoi(s)
		if err != nil || width < 0 {
			response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
			return
		}
		m := h.resolver.Resolve(width, info.Selected)
		info.Layout = &m
	}

	response.Success(ctx, c, info)
}

// GetEmojiPalette handles reaction palette request
func (h *SessionHandler) GetEmojiPalette(ctx context.Context, c *app.RequestContext) {
	palette := h.palette
	if palette == nil {
		palette = []string{}
	}
	response.Success(ctx, c, map[string]interface{}{
		"palette": palette,
	})
}
