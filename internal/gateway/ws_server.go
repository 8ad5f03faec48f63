package gateway

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/internal/service"
	"github.com/mbeoliero/threadly/pkg/errcode"
)

// Subscriber is the source of store-change events
type Subscriber interface {
	Subscribe() (string, <-chan event.Event)
	Unsubscribe(id string)
}

// WsServer is the WebSocket server. It relays store-change events to every
// connected client and accepts chat actions over the same connection.
type WsServer struct {
	cfg            *config.Config
	conns          *ConnMap
	registerChan   chan *Client
	unregisterChan chan *Client
	events         Subscriber
	chatService    *service.ChatService
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// NewWsServer creates a new WebSocket server
func NewWsServer(cfg *config.Config, events Subscriber, chatService *service.ChatService) *WsServer {
	return &WsServer{
		cfg:            cfg,
		conns:          NewConnMap(),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		events:         events,
		chatService:    chatService,
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}
}

// Run starts the WebSocket server loops; they stop when ctx is done
func (s *WsServer) Run(ctx context.Context) {
	subId, ch := s.events.Subscribe()

	go s.eventLoop(ctx)
	go s.pushLoop(ctx, subId, ch)
	log.Info("websocket server running: subscriber_id=%s", subId)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// pushLoop relays hub events to connected clients
func (s *WsServer) pushLoop(ctx context.Context, subId string, ch <-chan event.Event) {
	defer s.events.Unsubscribe(subId)

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(ctx, e)
		}
	}
}

// broadcast pushes a single event to every client
func (s *WsServer) broadcast(ctx context.Context, e event.Event) {
	for _, client := range s.conns.All() {
		if err := client.PushEvent(ctx, e); err != nil {
			log.CtxDebug(ctx, "push to client failed: conn_id=%s, type=%s, error=%v", client.ConnId, e.Type, err)
		}
	}
}

// registerClient registers a client
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	if !s.conns.Register(client) {
		log.CtxWarn(ctx, "duplicate connection id: conn_id=%s", client.ConnId)
		client.Close()
		return
	}
	s.onlineConnNum.Add(1)

	log.CtxInfo(ctx, "client registered: conn_id=%s, online_conns=%d", client.ConnId, s.onlineConnNum.Load())
}

// unregisterClient unregisters a client
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	if !s.conns.Unregister(client) {
		return
	}
	s.onlineConnNum.Add(-1)

	log.CtxInfo(ctx, "client unregistered: conn_id=%s, online_conns=%d", client.ConnId, s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: conn_id=%s", client.ConnId)
	}
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// ========== Message Handlers ==========

// HandleOpenConversation handles open conversation request
func (s *WsServer) HandleOpenConversation(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var openReq OpenConversationReq
	if err := json.Unmarshal(req.Data, &openReq); err != nil || openReq.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.chatService.OpenConversation(ctx, openReq.ConversationId); err != nil {
		return nil, err
	}
	return json.Marshal(s.chatService.State())
}

// HandleCloseConversation handles close conversation request
func (s *WsServer) HandleCloseConversation(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	s.chatService.CloseConversation(ctx)
	return json.Marshal(s.chatService.State())
}

// HandleSendMsg handles send message request
func (s *WsServer) HandleSendMsg(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var sendReq SendMsgReq
	if err := json.Unmarshal(req.Data, &sendReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	result, err := s.chatService.SendMessage(ctx, sendReq.Text)
	if err != nil {
		return nil, err
	}

	return json.Marshal(SendMsgResp{
		ConversationId: result.ConversationId,
		Index:          result.Index,
		MsgId:          result.Message.Id,
		TimeLabel:      result.Message.TimeLabel,
	})
}

// HandleReact handles add reaction request
func (s *WsServer) HandleReact(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var reactReq ReactReq
	if err := json.Unmarshal(req.Data, &reactReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	added, err := s.chatService.AddReaction(ctx, reactReq.Index, reactReq.Token)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ReactResp{Added: added})
}

// HandleSearch handles search request and returns the derived list
func (s *WsServer) HandleSearch(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var searchReq SearchReq
	if err := json.Unmarshal(req.Data, &searchReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	s.chatService.Search(ctx, searchReq.Query)
	return json.Marshal(s.chatService.View())
}

// HandleGetSession handles get session request
func (s *WsServer) HandleGetSession(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	return json.Marshal(s.chatService.State())
}
