package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/gateway"
	"github.com/mbeoliero/threadly/internal/handler"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/internal/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Session      *handler.SessionHandler
}

// SetupRouter sets up all routes; wsServer may be nil to serve the HTTP API only
func SetupRouter(h *server.Hertz, cfg *config.Config, handlers *Handlers, m *metrics.Metrics, wsServer *gateway.WsServer) {
	h.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	if m != nil {
		h.GET("/metrics", metricsHandler(m.Registry))
	}

	convGroup := h.Group("/conversation")
	{
		convGroup.GET("/list", handlers.Conversation.GetConversationList)
		convGroup.GET("/recent", handlers.Conversation.GetRecentContacts)
		convGroup.GET("/info", handlers.Conversation.GetConversation)
		convGroup.POST("/open", handlers.Conversation.OpenConversation)
		convGroup.POST("/close", handlers.Conversation.CloseConversation)
		convGroup.POST("/search", handlers.Conversation.Search)
		convGroup.POST("/delete", handlers.Conversation.DeleteConversation)
		convGroup.POST("/presence", handlers.Conversation.SetPresence)
	}

	msgGroup := h.Group("/msg")
	{
		msgGroup.GET("/list", handlers.Message.GetMessages)
		msgGroup.POST("/send", handlers.Message.SendMessage)
		msgGroup.POST("/react", handlers.Message.React)
		msgGroup.POST("/receive", handlers.Message.ReceiveMessage)
	}

	h.GET("/session", handlers.Session.GetSession)
	h.GET("/emoji/palette", handlers.Session.GetEmojiPalette)

	if wsServer == nil {
		return
	}

	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleHertzConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header of a websocket upgrade
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	return middleware.OriginAllowed(string(ctx.Request.Header.Peek("Origin")), allowedOrigins)
}

// metricsHandler serves the registry through a buffered response so it does not
// depend on a hijackable connection
func metricsHandler(g prometheus.Gatherer) app.HandlerFunc {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return func(ctx context.Context, c *app.RequestContext) {
		req, err := adaptor.GetCompatRequest(&c.Request)
		if err != nil {
			c.String(consts.StatusInternalServerError, err.Error())
			return
		}
		h.ServeHTTP(adaptor.GetCompatResponseWriter(&c.Response), req.WithContext(ctx))
	}
}
