package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/event"
	"github.com/mbeoliero/threadly/pkg/errcode"
)

// Client represents a connected WebSocket client
type Client struct {
	mu        sync.Mutex
	conn      ClientConn
	ConnId    string
	server    *WsServer
	closed    atomic.Bool
	closedErr error
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn ClientConn, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:   conn,
		ConnId: connId,
		server: server,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the client message handling
func (c *Client) Start() {
	go c.readLoop()
}

// readLoop continuously reads messages from the connection
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = fmt.Errorf("read loop panic: %v", r)
			log.CtxError(c.ctx, "client read loop panic: conn_id=%s, error=%v", c.ConnId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: conn_id=%s, error=%v", c.ConnId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleMessage(message); err != nil {
			log.CtxWarn(c.ctx, "handle message error: conn_id=%s, error=%v", c.ConnId, err)
			c.closedErr = err
			return
		}
	}
}

// handleMessage dispatches a single request; business errors are replied, not returned
func (c *Client) handleMessage(message []byte) error {
	var req WSRequest
	if err := Decode(message, &req); err != nil {
		return c.replyError(&req, ErrInvalidProtocol)
	}

	log.CtxDebug(c.ctx, "received message: req_identifier=%d, conn_id=%s", req.ReqIdentifier, c.ConnId)

	var resp []byte
	var err error

	switch req.ReqIdentifier {
	case WSOpenConversation:
		resp, err = c.server.HandleOpenConversation(c.ctx, c, &req)
	case WSCloseConversation:
		resp, err = c.server.HandleCloseConversation(c.ctx, c, &req)
	case WSSendMsg:
		resp, err = c.server.HandleSendMsg(c.ctx, c, &req)
	case WSReact:
		resp, err = c.server.HandleReact(c.ctx, c, &req)
	case WSSearch:
		resp, err = c.server.HandleSearch(c.ctx, c, &req)
	case WSGetSession:
		resp, err = c.server.HandleGetSession(c.ctx, c, &req)
	default:
		return c.replyError(&req, ErrInvalidProtocol)
	}

	return c.reply(&req, err, resp)
}

// reply sends a response to the client
func (c *Client) reply(req *WSRequest, err error, data []byte) error {
	resp := WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
		OperationId:   req.OperationId,
		Data:          data,
	}

	if err != nil {
		resp.ErrCode, resp.ErrMsg = errorCode(err)
		resp.Data = nil
	}

	return c.writeResponse(resp)
}

// replyError sends an error response
func (c *Client) replyError(req *WSRequest, err error) error {
	resp := WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
		OperationId:   req.OperationId,
	}
	resp.ErrCode, resp.ErrMsg = errorCode(err)
	return c.writeResponse(resp)
}

func errorCode(err error) (int, string) {
	var e *errcode.Error
	if errors.As(err, &e) {
		return e.Code, e.Msg
	}
	if errors.Is(err, ErrInvalidProtocol) {
		return errcode.ErrInvalidProtocol.Code, err.Error()
	}
	return errcode.ErrInternalServer.Code, err.Error()
}

// writeResponse writes a response to the connection
func (c *Client) writeResponse(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	data, err := Encode(resp)
	if err != nil {
		return err
	}

	return c.conn.WriteMessage(data)
}

// PushEvent pushes a store-change event to the client
func (c *Client) PushEvent(ctx context.Context, e event.Event) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	data, err := Encode(&PushEventData{Events: []event.Event{e}})
	if err != nil {
		return err
	}

	return c.writeResponse(WSResponse{
		ReqIdentifier: WSPushEvent,
		Data:          data,
	})
}

// KickOnline sends kick message and closes connection
func (c *Client) KickOnline() error {
	c.writeResponse(WSResponse{ReqIdentifier: WSKickOnlineMsg})
	return c.Close()
}

// Close closes the client connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	c.closed.Store(true)
	c.cancel()
	return c.conn.Close()
}

// close handles cleanup when connection is closed
func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
