package tui

import (
	"context"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/service"
	"github.com/mbeoliero/threadly/sdk"
)

// Backend is what the terminal UI drives: the engine in-process or a remote server
type Backend interface {
	List(ctx context.Context) ([]*entity.ConversationInfo, error)
	Messages(ctx context.Context, conversationId string) ([]*entity.MessageInfo, error)
	Open(ctx context.Context, conversationId string) error
	Close(ctx context.Context) error
	Send(ctx context.Context, text string) error
	React(ctx context.Context, index int, token string) error
	Search(ctx context.Context, query string) error
	Palette(ctx context.Context) ([]string, error)
	// Changes signals that the store changed and the UI should refresh
	Changes() <-chan struct{}
	Shutdown()
}

// LocalBackend runs against an in-process ChatService
type LocalBackend struct {
	chat    *service.ChatService
	hub     *event.Hub
	palette []string
	subId   string
	changes chan struct{}
	done    chan struct{}
}

// NewLocalBackend subscribes to hub and serves chat
func NewLocalBackend(chat *service.ChatService, hub *event.Hub, palette []string) *LocalBackend {
	subId, ch := hub.Subscribe()
	b := &LocalBackend{
		chat:    chat,
		hub:     hub,
		palette: palette,
		subId:   subId,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go b.relay(ch)
	return b
}

func (b *LocalBackend) relay(ch <-chan event.Event) {
	defer close(b.done)
	for range ch {
		notify(b.changes)
	}
}

func (b *LocalBackend) List(ctx context.Context) ([]*entity.ConversationInfo, error) {
	return b.chat.View(), nil
}

func (b *LocalBackend) Messages(ctx context.Context, conversationId string) ([]*entity.MessageInfo, error) {
	messages, err := b.chat.Messages(conversationId)
	if err != nil {
		return nil, err
	}
	infos := make([]*entity.MessageInfo, 0, len(messages))
	for i := range messages {
		infos = append(infos, messages[i].ToMessageInfo(i))
	}
	return infos, nil
}

func (b *LocalBackend) Open(ctx context.Context, conversationId string) error {
	return b.chat.OpenConversation(ctx, conversationId)
}

func (b *LocalBackend) Close(ctx context.Context) error {
	b.chat.CloseConversation(ctx)
	return nil
}

func (b *LocalBackend) Send(ctx context.Context, text string) error {
	_, err := b.chat.SendMessage(ctx, text)
	return err
}

func (b *LocalBackend) React(ctx context.Context, index int, token string) error {
	_, err := b.chat.AddReaction(ctx, index, token)
	return err
}

func (b *LocalBackend) Search(ctx context.Context, query string) error {
	b.chat.Search(ctx, query)
	return nil
}

func (b *LocalBackend) Palette(ctx context.Context) ([]string, error) {
	return b.palette, nil
}

func (b *LocalBackend) Changes() <-chan struct{} {
	return b.changes
}

// Shutdown unsubscribes from the hub
func (b *LocalBackend) Shutdown() {
	b.hub.Unsubscribe(b.subId)
	<-b.done
}

// RemoteBackend talks to a threadly server through the SDK
type RemoteBackend struct {
	client  *sdk.Client
	stream  *sdk.EventStream
	changes chan struct{}
}

// NewRemoteBackend connects the event stream of client
func NewRemoteBackend(ctx context.Context, client *sdk.Client) (*RemoteBackend, error) {
	stream, err := client.SubscribeEvents(ctx)
	if err != nil {
		return nil, err
	}

	b := &RemoteBackend{
		client:  client,
		stream:  stream,
		changes: make(chan struct{}, 1),
	}
	go func() {
		for range stream.Events() {
			notify(b.changes)
		}
	}()
	return b, nil
}

func (b *RemoteBackend) List(ctx context.Context) ([]*entity.ConversationInfo, error) {
	convs, err := b.client.GetConversationList(ctx, "")
	if err != nil {
		return nil, err
	}
	result := make([]*entity.ConversationInfo, 0, len(convs))
	for _, c := range convs {
		result = append(result, fromSDKConversation(c))
	}
	return result, nil
}

func (b *RemoteBackend) Messages(ctx context.Context, conversationId string) ([]*entity.MessageInfo, error) {
	messages, err := b.client.GetMessages(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	result := make([]*entity.MessageInfo, 0, len(messages))
	for _, m := range messages {
		result = append(result, fromSDKMessage(m))
	}
	return result, nil
}

func (b *RemoteBackend) Open(ctx context.Context, conversationId string) error {
	_, err := b.client.OpenConversation(ctx, conversationId)
	return err
}

func (b *RemoteBackend) Close(ctx context.Context) error {
	_, err := b.client.CloseConversation(ctx)
	return err
}

func (b *RemoteBackend) Send(ctx context.Context, text string) error {
	_, err := b.client.SendMessage(ctx, text)
	return err
}

func (b *RemoteBackend) React(ctx context.Context, index int, token string) error {
	_, err := b.client.React(ctx, index, token)
	return err
}

func (b *RemoteBackend) Search(ctx context.Context, query string) error {
	_, err := b.client.Search(ctx, query)
	return err
}

func (b *RemoteBackend) Palette(ctx context.Context) ([]string, error) {
	return b.client.GetEmojiPalette(ctx)
}

func (b *RemoteBackend) Changes() <-chan struct{} {
	return b.changes
}

// Shutdown closes the event stream
func (b *RemoteBackend) Shutdown() {
	b.stream.Close()
	<-b.stream.Done()
}

// notify coalesces change signals
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func fromSDKConversation(c *sdk.ConversationInfo) *entity.ConversationInfo {
	return &entity.ConversationInfo{
		Conversation: entity.Conversation{
			Id:              c.ConversationId,
			Name:            c.Name,
			AvatarUrl:       c.AvatarUrl,
			LastMessage:     c.LastMessage,
			LastMessageTime: c.LastMessageTime,
			DeliveryState:   entity.MessageStatus(c.DeliveryState),
			Online:          c.Online,
			LastOpenedAt:    c.LastOpenedAt,
			Unread:          c.Unread,
			Group: entity.GroupMetadata{
				GroupId:     c.Group.GroupId,
				GroupName:   c.Group.GroupName,
				MemberNames: c.Group.MemberNames,
			},
		},
		Active: c.Active,
	}
}

func fromSDKMessage(m *sdk.MessageInfo) *entity.MessageInfo {
	segments := make([]entity.Segment, 0, len(m.Segments))
	for _, s := range m.Segments {
		segments = append(segments, entity.Segment{
			Kind: entity.SegmentKind(s.Kind),
			Text: s.Text,
			URL:  s.URL,
		})
	}
	return &entity.MessageInfo{
		Index:     m.Index,
		Id:        m.Id,
		Direction: entity.Direction(m.Direction),
		Body:      m.Body,
		Segments:  segments,
		TimeLabel: m.TimeLabel,
		Status:    entity.MessageStatus(m.Status),
		Reactions: m.Reactions,
	}
}
