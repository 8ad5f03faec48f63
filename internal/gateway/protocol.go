package gateway

import (
	"encoding/json"

	"github.com/mbeoliero/threadly/internal/event"
)

// WSRequest represents a WebSocket request message
type WSRequest struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type
	MsgIncr       string          `json:"msg_incr"`       // Client message counter/trace Id
	OperationId   string          `json:"operation_id"`
	Data          json.RawMessage `json:"data,omitempty"` // Business data
}

// WSResponse represents a WebSocket response or push message
type WSResponse struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type (echo back)
	MsgIncr       string          `json:"msg_incr"`       // Message counter (echo back)
	OperationId   string          `json:"operation_id"`
	ErrCode       int             `json:"err_code"` // 0 = success
	ErrMsg        string          `json:"err_msg"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// OpenConversationReq represents open conversation request data
type OpenConversationReq struct {
	ConversationId string `json:"conversation_id"`
}

// SendMsgReq represents send message request data
type SendMsgReq struct {
	Text string `json:"text"`
}

// SendMsgResp represents send message response data
type SendMsgResp struct {
	ConversationId string `json:"conversation_id"`
	Index          int    `json:"index"`
	MsgId          string `json:"msg_id"`
	TimeLabel      string `json:"time_label"`
}

// ReactReq represents add reaction request data
type ReactReq struct {
	Index int    `json:"index"`
	Token string `json:"token"`
}

// ReactResp represents add reaction response data
type ReactResp struct {
	Added bool `json:"added"`
}

// SearchReq represents search request data
type SearchReq struct {
	Query string `json:"query"`
}

// PushEventData represents pushed store-change data
type PushEventData struct {
	Events []event.Event `json:"events"`
}

// Encode encodes data to JSON bytes
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes to struct
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
