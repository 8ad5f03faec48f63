package service

import (
	"context"
	"strings"
	"sync"

	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/internal/repository"
	"github.com/mbeoliero/threadly/internal/scheduler"
	"github.com/mbeoliero/threadly/pkg/constant"
	"github.com/mbeoliero/threadly/pkg/errcode"
	"github.com/mbeoliero/threadly/pkg/idgen"
)

// SessionState is a snapshot of the selection controller
type SessionState struct {
	ActiveId string `json:"active_id,omitempty"`
	Selected bool   `json:"selected"`
	Query    string `json:"query"`
}

// SendResult is the message created by SendMessage
type SendResult struct {
	ConversationId string         `json:"conversation_id"`
	Index          int            `json:"index"`
	Message        entity.Message `json:"message"`
}

// ChatService tracks the active conversation and mediates between the store,
// the lifecycle simulator and the reaction engine. User actions are serialized.
type ChatService struct {
	mu        sync.Mutex
	activeId  string // empty when nothing is selected
	query     string
	lastStamp int64

	convRepo  *repository.ConversationRepo
	lifecycle *LifecycleService
	reactions *ReactionService
	sched     scheduler.Scheduler
	ids       idgen.IDGenerator
	publisher event.Publisher
	metrics   *metrics.Metrics
}

// NewChatService creates a new ChatService in the NoneSelected state
func NewChatService(convRepo *repository.ConversationRepo, lifecycle *LifecycleService, reactions *ReactionService, sched scheduler.Scheduler, ids idgen.IDGenerator, publisher event.Publisher, m *metrics.Metrics) *ChatService {
	return &ChatService{
		convRepo:  convRepo,
		lifecycle: lifecycle,
		reactions: reactions,
		sched:     sched,
		ids:       ids,
		publisher: publisher,
		metrics:   m,
	}
}

// OpenConversation selects a conversation, moves it to the front of the recency
// order and clears its unread flag
func (s *ChatService) OpenConversation(ctx context.Context, conversationId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.convRepo.Exists(conversationId) {
		return errcode.ErrConvNotFound
	}

	stamp := s.nextStamp()
	if err := s.convRepo.UpdateLastOpened(conversationId, stamp); err != nil {
		return err
	}
	if err := s.convRepo.SetUnread(conversationId, false); err != nil {
		return err
	}
	s.activeId = conversationId

	s.metrics.ConversationsOpen.Inc()
	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventConversationOpened,
		ConversationId: conversationId,
		Index:          -1,
	})
	log.CtxInfo(ctx, "conversation opened: conversation_id=%s, last_opened_at=%d", conversationId, stamp)
	return nil
}

// CloseConversation returns to the NoneSelected state. Pending lifecycle
// transitions of the closed conversation keep running.
func (s *ChatService) CloseConversation(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeId == "" {
		return
	}
	closed := s.activeId
	s.activeId = ""

	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventConversationClosed,
		ConversationId: closed,
		Index:          -1,
	})
	log.CtxInfo(ctx, "conversation closed: conversation_id=%s", closed)
}

// SendMessage appends an outbound message to the active conversation, updates
// its preview and delivery mirror, and starts the acknowledgement simulation.
// Blank text is rejected before anything is mutated.
func (s *ChatService) SendMessage(ctx context.Context, text string) (*SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeId == "" {
		return nil, errcode.ErrNoActiveConversation
	}
	if entity.IsBlank(text) {
		return nil, errcode.ErrInvalidInput
	}
	body := strings.TrimSpace(text)

	msgId, err := s.ids.NextID()
	if err != nil {
		log.CtxError(ctx, "generate message id failed: %v", err)
		return nil, errcode.ErrSendFailed.Wrap(err)
	}

	label := entity.TimeLabel(s.sched.Now())
	msg := entity.Message{
		Id:        msgId,
		Direction: entity.DirectionOutbound,
		Body:      body,
		TimeLabel: label,
		Status:    entity.StatusSent,
		Reactions: []string{},
	}

	conversationId := s.activeId
	index, err := s.convRepo.AppendMessage(conversationId, msg)
	if err != nil {
		log.CtxWarn(ctx, "append message failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, err
	}
	if err := s.convRepo.SetPreview(conversationId, body, label); err != nil {
		return nil, err
	}
	if err := s.convRepo.SetDeliveryMirror(conversationId, entity.StatusSent); err != nil {
		return nil, err
	}

	s.lifecycle.OnMessageSent(ctx, conversationId, index)

	s.metrics.MessagesSent.Inc()
	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventMessageSent,
		ConversationId: conversationId,
		Index:          index,
		Status:         entity.StatusSent,
	})
	log.CtxInfo(ctx, "message sent: conversation_id=%s, index=%d, msg_id=%s", conversationId, index, msgId)

	return &SendResult{
		ConversationId: conversationId,
		Index:          index,
		Message:        msg,
	}, nil
}

// AddReaction reacts to a message of the active conversation
func (s *ChatService) AddReaction(ctx context.Context, index int, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeId == "" {
		return false, errcode.ErrNoActiveConversation
	}
	return s.reactions.ToggleReaction(ctx, s.activeId, index, token)
}

// ReceiveMessage simulates an inbound message from the contact. The
// conversation is flagged unread unless it is the active one.
func (s *ChatService) ReceiveMessage(ctx context.Context, conversationId, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entity.IsBlank(text) {
		return -1, errcode.ErrInvalidInput
	}
	body := strings.TrimSpace(text)

	msgId, err := s.ids.NextID()
	if err != nil {
		log.CtxError(ctx, "generate message id failed: %v", err)
		return -1, errcode.ErrSendFailed.Wrap(err)
	}

	label := entity.TimeLabel(s.sched.Now())
	index, err := s.convRepo.AppendMessage(conversationId, entity.Message{
		Id:        msgId,
		Direction: entity.DirectionInbound,
		Body:      body,
		TimeLabel: label,
		Reactions: []string{},
	})
	if err != nil {
		return -1, err
	}
	if err := s.convRepo.SetPreview(conversationId, body, label); err != nil {
		return -1, err
	}
	if err := s.convRepo.RefreshDeliveryMirror(conversationId); err != nil {
		return -1, err
	}
	if conversationId != s.activeId {
		if err := s.convRepo.SetUnread(conversationId, true); err != nil {
			return -1, err
		}
	}

	s.metrics.MessagesReceived.Inc()
	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventMessageReceived,
		ConversationId: conversationId,
		Index:          index,
	})
	log.CtxInfo(ctx, "message received: conversation_id=%s, index=%d", conversationId, index)
	return index, nil
}

// DeleteConversation removes a conversation; if it was active the selection is cleared.
// Pending lifecycle transitions for it become no-ops.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.convRepo.Delete(conversationId); err != nil {
		return err
	}
	if s.activeId == conversationId {
		s.activeId = ""
	}

	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventConversationDeleted,
		ConversationId: conversationId,
		Index:          -1,
	})
	log.CtxInfo(ctx, "conversation deleted: conversation_id=%s", conversationId)
	return nil
}

// SetPresence flips the online indicator of a contact
func (s *ChatService) SetPresence(ctx context.Context, conversationId string, online bool) error {
	if err := s.convRepo.SetOnline(conversationId, online); err != nil {
		return err
	}

	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventPresenceChanged,
		ConversationId: conversationId,
		Index:          -1,
	})
	log.CtxDebug(ctx, "presence changed: conversation_id=%s, online=%t", conversationId, online)
	return nil
}

// Search sets the conversation list filter
func (s *ChatService) Search(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.publisher.Publish(ctx, event.Event{
		Type:  constant.EventSearchChanged,
		Index: -1,
		Query: query,
	})
}

// View returns the filtered, recency-ordered conversation list for the current query
func (s *ChatService) View() []*entity.ConversationInfo {
	s.mu.Lock()
	query, active := s.query, s.activeId
	s.mu.Unlock()

	return s.decorate(DeriveView(s.convRepo.List(), query), active)
}

// ViewFor derives the list for an explicit query without changing the session query
func (s *ChatService) ViewFor(query string) []*entity.ConversationInfo {
	active, _ := s.Active()
	return s.decorate(DeriveView(s.convRepo.List(), query), active)
}

// Recent returns the recent-contacts strip
func (s *ChatService) Recent(limit int) []*entity.ConversationInfo {
	active, _ := s.Active()
	return s.decorate(RecentContacts(s.convRepo.List(), limit), active)
}

// Messages returns the thread of a conversation
func (s *ChatService) Messages(conversationId string) ([]entity.Message, error) {
	return s.convRepo.Messages(conversationId)
}

// Conversation returns a single conversation
func (s *ChatService) Conversation(conversationId string) (entity.Conversation, error) {
	return s.convRepo.Get(conversationId)
}

// State returns a snapshot of the selection state
func (s *ChatService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionState{
		ActiveId: s.activeId,
		Selected: s.activeId != "",
		Query:    s.query,
	}
}

// Active returns the selected conversation id; ok is false in the NoneSelected state
func (s *ChatService) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeId, s.activeId != ""
}

func (s *ChatService) decorate(convs []entity.Conversation, active string) []*entity.ConversationInfo {
	result := make([]*entity.ConversationInfo, 0, len(convs))
	for _, c := range convs {
		result = append(result, &entity.ConversationInfo{
			Conversation: c,
			Active:       c.Id == active,
		})
	}
	return result
}

// nextStamp returns a recency value newer than every conversation in the store;
// caller must hold s.mu
func (s *ChatService) nextStamp() int64 {
	stamp := s.sched.Now().UnixMilli()
	for _, c := range s.convRepo.List() {
		if c.LastOpenedAt >= stamp {
			stamp = c.LastOpenedAt + 1
		}
	}
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}
