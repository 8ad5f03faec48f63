package service

import (
	"context"
	"errors"
	"time"

	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/internal/repository"
	"github.com/mbeoliero/threadly/internal/scheduler"
	"github.com/mbeoliero/threadly/pkg/constant"
	"github.com/mbeoliero/threadly/pkg/errcode"
)

// LifecycleService emulates acknowledgement latency for sent messages
type LifecycleService struct {
	convRepo       *repository.ConversationRepo
	sched          scheduler.Scheduler
	publisher      event.Publisher
	metrics        *metrics.Metrics
	deliveredDelay time.Duration
	seenDelay      time.Duration
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(convRepo *repository.ConversationRepo, sched scheduler.Scheduler, publisher event.Publisher, m *metrics.Metrics, deliveredDelay, seenDelay time.Duration) *LifecycleService {
	return &LifecycleService{
		convRepo:       convRepo,
		sched:          sched,
		publisher:      publisher,
		metrics:        m,
		deliveredDelay: deliveredDelay,
		seenDelay:      seenDelay,
	}
}

// OnMessageSent schedules the delivered and seen transitions for the message at
// (conversationId, index). The pair is captured now, so later appends never
// redirect these transitions. Closing the conversation does not cancel them.
func (s *LifecycleService) OnMessageSent(ctx context.Context, conversationId string, index int) {
	// Callbacks outlive the request that scheduled them.
	bg := context.WithoutCancel(ctx)

	s.sched.AfterFunc(s.deliveredDelay, func() {
		s.transition(bg, conversationId, index, entity.StatusDelivered)
	})
	s.sched.AfterFunc(s.seenDelay, func() {
		s.transition(bg, conversationId, index, entity.StatusSeen)
	})

	log.CtxDebug(ctx, "lifecycle scheduled: conversation_id=%s, index=%d, delivered_in=%s, seen_in=%s",
		conversationId, index, s.deliveredDelay, s.seenDelay)
}

// transition applies one forward status write; it never returns or panics on stale references
func (s *LifecycleService) transition(ctx context.Context, conversationId string, index int, status entity.MessageStatus) {
	applied, err := s.convRepo.SetMessageStatus(conversationId, index, status)
	if err != nil {
		if errors.Is(err, errcode.ErrConvNotFound) || errors.Is(err, errcode.ErrMessageNotFound) {
			s.metrics.StaleTransitions.Inc()
			log.CtxDebug(ctx, "lifecycle target gone: conversation_id=%s, index=%d, status=%s", conversationId, index, status)
			return
		}
		log.CtxWarn(ctx, "lifecycle transition failed: conversation_id=%s, index=%d, status=%s, error=%v", conversationId, index, status, err)
		return
	}
	if !applied {
		return
	}

	// Ignored if the conversation was deleted in between.
	_ = s.convRepo.RefreshDeliveryMirror(conversationId)

	s.metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	s.publisher.Publish(ctx, event.Event{
		Type:           constant.EventMessageStatus,
		ConversationId: conversationId,
		Index:          index,
		Status:         status,
	})
}
