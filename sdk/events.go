package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// pushEventIdentifier marks server-pushed store-change frames
const pushEventIdentifier = 2001

type wsFrame struct {
	ReqIdentifier int32           `json:"req_identifier"`
	ErrCode       int             `json:"err_code"`
	ErrMsg        string          `json:"err_msg"`
	Data          json.RawMessage `json:"data,omitempty"`
}

type pushEventData struct {
	Events []Event `json:"events"`
}

// EventStream receives store-change events from the server
type EventStream struct {
	conn      *websocket.Conn
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// SubscribeEvents dials the websocket endpoint of the client's server
func (c *Client) SubscribeEvents(ctx context.Context) (*EventStream, error) {
	wsURL, err := websocketURL(c.baseURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	s := &EventStream{
		conn:   conn,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
	go s.readLoop()

	return s, nil
}

// Events returns the event channel; it is closed when the connection ends
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Done is closed when the read loop exits
func (s *EventStream) Done() <-chan struct{} {
	return s.done
}

// Close closes the WebSocket connection
func (s *EventStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

func (s *EventStream) readLoop() {
	defer func() {
		close(s.events)
		close(s.done)
	}()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			continue
		}
		if frame.ReqIdentifier != pushEventIdentifier {
			continue
		}

		var data pushEventData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			continue
		}
		for _, e := range data.Events {
			select {
			case s.events <- e:
			default:
				// slow reader, drop
			}
		}
	}
}

func websocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}
