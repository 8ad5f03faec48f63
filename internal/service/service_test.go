package service

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/internal/repository"
	"github.com/mbeoliero/threadly/internal/scheduler"
	"github.com/mbeoliero/threadly/pkg/constant"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type seqIDs struct {
	n int
}

func (g *seqIDs) NextID() (string, error) {
	g.n++
	return "m" + strconv.Itoa(g.n), nil
}

type failingIDs struct{}

func (failingIDs) NextID() (string, error) {
	return "", errors.New("clock moved backwards")
}

type testEngine struct {
	repo      *repository.ConversationRepo
	sched     *scheduler.Virtual
	hub       *event.Hub
	metrics   *metrics.Metrics
	lifecycle *LifecycleService
	reactions *ReactionService
	chat      *ChatService
	events    <-chan event.Event
}

// newTestEngine seeds three conversations whose recency order is 2, 3, 1
func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	repo := repository.NewConversationRepo()
	require.NoError(t, repo.Create(entity.Conversation{Id: "1", Name: "Alice Moreau", LastOpenedAt: 100}, []entity.Message{
		{Id: "s1", Direction: entity.DirectionInbound, Body: "see you there", TimeLabel: "09:12"},
	}))
	require.NoError(t, repo.Create(entity.Conversation{Id: "2", Name: "David Okafor", LastOpenedAt: 300, Unread: true}, nil))
	require.NoError(t, repo.Create(entity.Conversation{Id: "3", Name: "Alina Petrova", LastOpenedAt: 200}, []entity.Message{
		{Id: "s2", Direction: entity.DirectionOutbound, Body: "done", TimeLabel: "08:00", Status: entity.StatusDelivered},
	}))

	sched := scheduler.NewVirtual(epoch)
	m := metrics.New()
	hub := event.NewHub(64, m)
	_, events := hub.Subscribe()

	lifecycle := NewLifecycleService(repo, sched, hub, m, constant.DeliveredDelay, constant.SeenDelay)
	reactions := NewReactionService(repo, hub, m)
	chat := NewChatService(repo, lifecycle, reactions, sched, &seqIDs{}, hub, m)

	return &testEngine{
		repo:      repo,
		sched:     sched,
		hub:       hub,
		metrics:   m,
		lifecycle: lifecycle,
		reactions: reactions,
		chat:      chat,
		events:    events,
	}
}

// drain returns the event types published so far
func (e *testEngine) drain() []string {
	var types []string
	for {
		select {
		case ev := <-e.events:
			types = append(types, ev.Type)
		default:
			return types
		}
	}
}

func (e *testEngine) status(t *testing.T, conversationId string, index int) entity.MessageStatus {
	t.Helper()
	msg, err := e.repo.Message(conversationId, index)
	require.NoError(t, err)
	return msg.Status
}

func (e *testEngine) mirror(t *testing.T, conversationId string) entity.MessageStatus {
	t.Helper()
	conv, err := e.repo.Get(conversationId)
	require.NoError(t, err)
	return conv.DeliveryState
}

func ids(convs []entity.Conversation) []string {
	result := make([]string, 0, len(convs))
	for _, c := range convs {
		result = append(result, c.Id)
	}
	return result
}

func infoIds(infos []*entity.ConversationInfo) []string {
	result := make([]string, 0, len(infos))
	for _, c := range infos {
		result = append(result, c.Id)
	}
	return result
}
