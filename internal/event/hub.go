package event

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/metrics"
)

// Event is a store-change notification telling the UI to re-render
type Event struct {
	Type           string               `json:"type"`
	ConversationId string               `json:"conversation_id,omitempty"`
	Index          int                  `json:"index"` // -1 when not about a single message
	Status         entity.MessageStatus `json:"status,omitempty"`
	Token          string               `json:"token,omitempty"`
	Query          string               `json:"query,omitempty"`
}

// Publisher receives store-change events
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Hub fans events out to subscribers
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]chan Event
	bufSize int
	metrics *metrics.Metrics
}

// NewHub creates a new Hub; each subscriber gets a buffer of bufSize events
func NewHub(bufSize int, m *metrics.Metrics) *Hub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &Hub{
		subs:    make(map[string]chan Event),
		bufSize: bufSize,
		metrics: m,
	}
}

// Subscribe registers a new subscriber
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, h.bufSize)

	h.mu.Lock()
	h.subs[id] = ch
	n := len(h.subs)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.Subscribers.Set(float64(n))
	}
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(ch)
	}
	n := len(h.subs)
	h.mu.Unlock()

	if ok && h.metrics != nil {
		h.metrics.Subscribers.Set(float64(n))
	}
}

// Publish delivers e to every subscriber without blocking; slow subscribers miss events
func (h *Hub) Publish(ctx context.Context, e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			log.CtxWarn(ctx, "subscriber channel full, event dropped: subscriber_id=%s, type=%s", id, e.Type)
		}
	}
}

// Count returns the number of subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
