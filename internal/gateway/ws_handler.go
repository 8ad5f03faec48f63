package gateway

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/pkg/errcode"
)

// HandleHertzConnection handles a WebSocket connection from Hertz using hertz-contrib/websocket
func (s *WsServer) HandleHertzConnection(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		log.CtxWarn(ctx, "websocket rejected: online_conns=%d, max=%d", s.onlineConnNum.Load(), s.maxConnNum)
		c.String(consts.StatusServiceUnavailable, errcode.ErrConnOverLimit.Msg)
		return
	}

	wsCfg := s.cfg.WebSocket
	err := upgrader.Upgrade(c, func(conn *websocket.Conn) {
		connId := uuid.New().String()
		wsConn := NewHertzWebSocketClientConn(conn, ConnOptions{
			MaxMessageSize:   wsCfg.MaxMessageSize,
			WriteWait:        wsCfg.WriteWait,
			PongWait:         wsCfg.PongWait,
			PingPeriod:       wsCfg.PingPeriod,
			WriteChannelSize: wsCfg.WriteChannelSize,
		})
		client := NewClient(wsConn, connId, s)

		s.registerChan <- client

		// blocks until the connection is gone
		client.readLoop()
	})

	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}
