package repository

import (
	"fmt"
	"sync"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/pkg/errcode"
)

// conversationRecord pairs a conversation with its message arena
type conversationRecord struct {
	conv     entity.Conversation
	messages []entity.Message
}

// ConversationRepo is the in-memory store of conversations and their messages.
// It exclusively owns every record; callers only receive copies.
type ConversationRepo struct {
	mu    sync.RWMutex
	convs map[string]*conversationRecord
	order []string // insertion order
}

// NewConversationRepo creates an empty ConversationRepo
func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{
		convs: make(map[string]*conversationRecord),
	}
}

// Create adds a conversation with its initial messages.
// The delivery mirror is derived from the last message.
func (r *ConversationRepo) Create(conv entity.Conversation, messages []entity.Message) error {
	if conv.Id == "" {
		return errcode.ErrInvalidParam
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.convs[conv.Id]; exists {
		return errcode.ErrInvalidParam.Wrap(fmt.Errorf("duplicate conversation id %q", conv.Id))
	}

	rec := &conversationRecord{conv: conv.Clone()}
	if rec.conv.Group.MemberNames == nil {
		rec.conv.Group.MemberNames = []string{}
	}
	for i := range messages {
		msg := messages[i].Clone()
		switch {
		case msg.Direction == entity.DirectionInbound:
			msg.Status = entity.StatusNone
		case msg.Status == entity.StatusNone:
			msg.Status = entity.StatusSent
		}
		msg.Reactions = dedupe(msg.Reactions)
		rec.messages = append(rec.messages, msg)
	}
	rec.refreshMirror()

	r.convs[conv.Id] = rec
	r.order = append(r.order, conv.Id)
	return nil
}

// Delete removes a conversation and its messages
func (r *ConversationRepo) Delete(conversationId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.convs[conversationId]; !ok {
		return errcode.ErrConvNotFound
	}
	delete(r.convs, conversationId)
	for i, id := range r.order {
		if id == conversationId {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of a conversation
func (r *ConversationRepo) Get(conversationId string) (entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.convs[conversationId]
	if !ok {
		return entity.Conversation{}, errcode.ErrConvNotFound
	}
	return rec.conv.Clone(), nil
}

// Exists checks if a conversation is present
func (r *ConversationRepo) Exists(conversationId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.convs[conversationId]
	return ok
}

// List returns a snapshot of all conversations in insertion order
func (r *ConversationRepo) List() []entity.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Conversation, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.convs[id].conv.Clone())
	}
	return result
}

// Messages returns a snapshot of a conversation's messages
func (r *ConversationRepo) Messages(conversationId string) ([]entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.convs[conversationId]
	if !ok {
		return nil, errcode.ErrConvNotFound
	}
	result := make([]entity.Message, 0, len(rec.messages))
	for i := range rec.messages {
		result = append(result, rec.messages[i].Clone())
	}
	return result, nil
}

// Message returns a copy of the message at index
func (r *ConversationRepo) Message(conversationId string, index int) (entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, err := r.messageLocked(conversationId, index)
	if err != nil {
		return entity.Message{}, err
	}
	return msg.Clone(), nil
}

// AppendMessage appends msg and returns its index for later targeted mutation
func (r *ConversationRepo) AppendMessage(conversationId string, msg entity.Message) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.convs[conversationId]
	if !ok {
		return -1, errcode.ErrConvNotFound
	}
	stored := msg.Clone()
	stored.Reactions = dedupe(stored.Reactions)
	rec.messages = append(rec.messages, stored)
	return len(rec.messages) - 1, nil
}

// SetMessageStatus advances the status of the message at index.
// Regressions and repeats are ignored and reported as false. Stale references
// return a not-found error instead of panicking.
func (r *ConversationRepo) SetMessageStatus(conversationId string, index int, status entity.MessageStatus) (bool, error) {
	if !status.Valid() {
		return false, errcode.ErrInvalidParam
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg, err := r.messageLocked(conversationId, index)
	if err != nil {
		return false, err
	}
	if msg.Direction != entity.DirectionOutbound || !msg.Status.CanAdvanceTo(status) {
		return false, nil
	}
	msg.Status = status
	return true, nil
}

// AddReaction appends token to the message's reaction set; duplicates are ignored
func (r *ConversationRepo) AddReaction(conversationId string, index int, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, err := r.messageLocked(conversationId, index)
	if err != nil {
		return false, err
	}
	if msg.HasReaction(token) {
		return false, nil
	}
	msg.Reactions = append(msg.Reactions, token)
	return true, nil
}

// UpdateLastOpened sets the recency key of a conversation
func (r *ConversationRepo) UpdateLastOpened(conversationId string, ts int64) error {
	return r.update(conversationId, func(rec *conversationRecord) {
		rec.conv.LastOpenedAt = ts
	})
}

// SetUnread sets the unread flag
func (r *ConversationRepo) SetUnread(conversationId string, unread bool) error {
	return r.update(conversationId, func(rec *conversationRecord) {
		rec.conv.Unread = unread
	})
}

// SetDeliveryMirror sets the conversation-level delivery state
func (r *ConversationRepo) SetDeliveryMirror(conversationId string, status entity.MessageStatus) error {
	return r.update(conversationId, func(rec *conversationRecord) {
		rec.conv.DeliveryState = status
	})
}

// RefreshDeliveryMirror copies the last message's status onto the conversation
func (r *ConversationRepo) RefreshDeliveryMirror(conversationId string) error {
	return r.update(conversationId, func(rec *conversationRecord) {
		rec.refreshMirror()
	})
}

// SetPreview sets the last message preview text and time label
func (r *ConversationRepo) SetPreview(conversationId, text, timeLabel string) error {
	return r.update(conversationId, func(rec *conversationRecord) {
		rec.conv.LastMessage = text
		rec.conv.LastMessageTime = timeLabel
	})
}

// SetOnline sets the presence flag
func (r *ConversationRepo) SetOnline(conversationId string, online bool) error {
	return r.update(conversationId, func(rec *conversationRecord) {
		rec.conv.Online = online
	})
}

func (r *ConversationRepo) update(conversationId string, fn func(rec *conversationRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.convs[conversationId]
	if !ok {
		return errcode.ErrConvNotFound
	}
	fn(rec)
	return nil
}

// messageLocked resolves a message pointer; caller must hold the lock
func (r *ConversationRepo) messageLocked(conversationId string, index int) (*entity.Message, error) {
	rec, ok := r.convs[conversationId]
	if !ok {
		return nil, errcode.ErrConvNotFound
	}
	if index < 0 || index >= len(rec.messages) {
		return nil, errcode.ErrMessageNotFound
	}
	return &rec.messages[index], nil
}

func (rec *conversationRecord) refreshMirror() {
	if len(rec.messages) == 0 {
		rec.conv.DeliveryState = entity.StatusNone
		return
	}
	rec.conv.DeliveryState = rec.messages[len(rec.messages)-1].Status
}

func dedupe(tokens []string) []string {
	result := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
