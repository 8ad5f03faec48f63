package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/internal/repository"
	"github.com/mbeoliero/threadly/pkg/constant"
	"github.com/mbeoliero/threadly/pkg/errcode"
)

// ReactionService attaches reaction tokens to messages
type ReactionService struct {
	convRepo  *repository.ConversationRepo
	publisher event.Publisher
	metrics   *metrics.Metrics
}

// NewReactionService creates a new ReactionService
func NewReactionService(convRepo *repository.ConversationRepo, publisher event.Publisher, m *metrics.Metrics) *ReactionService {
	return &ReactionService{
		convRepo:  convRepo,
		publisher: publisher,
		metrics:   m,
	}
}

// ToggleReaction adds token to the message's reactions. It is add-only: a token
// that is already present is left in place and the call is a no-op.
// Tokens are opaque and only compared byte for byte; only the empty token is rejected.
func (s *ReactionService) ToggleReaction(ctx context.Context, conversationId string, index int, token string) (bool, error) {
	if token == "" {
		return false, errcode.ErrInvalidReaction
	}

	added, err := s.convRepo.AddReaction(conversationId, index, token)
	if err != nil {
		log.CtxDebug(ctx, "add reaction failed: conversation_id=%s, index=%d, error=%v", conversationId, index, err)
		return false, err
	}
	if !added {
		return false, nil
	}

	s.metrics.ReactionsAdded.Inc()
	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventReactionAdded,
		ConversationId: conversationId,
		Index:          index,
		Token:          token,
	})
	log.CtxInfo(ctx, "reaction added: conversation_id=%s, index=%d", conversationId, index)
	return true, nil
}
