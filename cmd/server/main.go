package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/app"
	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/gateway"
	"github.com/mbeoliero/threadly/internal/handler"
	"github.com/mbeoliero/threadly/internal/router"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("THREADLY_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	engine, err := app.New(ctx, cfg, nil)
	if err != nil {
		log.CtxError(ctx, "failed to initialize chat engine: %v", err)
		panic(err)
	}

	wsServer := gateway.NewWsServer(cfg, engine.Hub, engine.Chat)
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket server started")

	handlers := &router.Handlers{
		Conversation: handler.NewConversationHandler(engine.Chat),
		Message:      handler.NewMessageHandler(engine.Chat),
		Session:      handler.NewSessionHandler(engine.Chat, engine.Resolver, cfg.Emoji.Palette),
	}

	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	router.SetupRouter(h, cfg, handlers, engine.Metrics, wsServer)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	go func() {
		h.Spin()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
