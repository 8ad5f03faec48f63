package app

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/layout"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/internal/repository"
	"github.com/mbeoliero/threadly/internal/scheduler"
	"github.com/mbeoliero/threadly/internal/service"
	"github.com/mbeoliero/threadly/pkg/idgen"
)

// App is a fully wired chat engine
type App struct {
	Config    *config.Config
	Metrics   *metrics.Metrics
	Hub       *event.Hub
	Repos     *repository.Repositories
	Scheduler scheduler.Scheduler
	Lifecycle *service.LifecycleService
	Reactions *service.ReactionService
	Chat      *service.ChatService
	Resolver  *layout.Resolver
}

// New wires the engine on top of sched; a nil sched uses the wall clock
func New(ctx context.Context, cfg *config.Config, sched scheduler.Scheduler) (*App, error) {
	if sched == nil {
		sched = scheduler.NewRealtime(nil)
	}

	m := metrics.New()
	hub := event.NewHub(cfg.WebSocket.PushChannelSize, m)

	repos, err := repository.NewRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lifecycle := service.NewLifecycleService(repos.Conversation, sched, hub, m,
		cfg.Lifecycle.DeliveredDelay, cfg.Lifecycle.SeenDelay)
	reactions := service.NewReactionService(repos.Conversation, hub, m)
	chat := service.NewChatService(repos.Conversation, lifecycle, reactions, sched,
		idgen.New(cfg.IdGen.MachineId), hub, m)

	log.CtxInfo(ctx, "chat engine ready: delivered_delay=%s, seen_delay=%s",
		cfg.Lifecycle.DeliveredDelay, cfg.Lifecycle.SeenDelay)

	return &App{
		Config:    cfg,
		Metrics:   m,
		Hub:       hub,
		Repos:     repos,
		Scheduler: sched,
		Lifecycle: lifecycle,
		Reactions: reactions,
		Chat:      chat,
		Resolver:  layout.NewResolver(cfg.Layout),
	}, nil
}
