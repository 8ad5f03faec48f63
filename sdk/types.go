package sdk

import "encoding/json"

// Response represents the standard API response
type Response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message delivery statuses
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusSeen      = "seen"
)

// Message directions
const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

// Segment kinds of a parsed message body
const (
	SegmentText  = "text"
	SegmentImage = "image"
)

// GroupInfo represents the circle a conversation belongs to
type GroupInfo struct {
	GroupId     string   `json:"group_id"`
	GroupName   string   `json:"group_name"`
	MemberNames []string `json:"member_names"`
}

// ConversationInfo represents conversation info
type ConversationInfo struct {
	ConversationId  string    `json:"conversation_id"`
	Name            string    `json:"name"`
	AvatarUrl       string    `json:"avatar_url"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime string    `json:"last_message_time"`
	DeliveryState   string    `json:"delivery_state,omitempty"`
	Online          bool      `json:"online"`
	LastOpenedAt    int64     `json:"last_opened_at"`
	Unread          bool      `json:"unread"`
	Group           GroupInfo `json:"group"`
	Active          bool      `json:"active"`
}

// Segment is a piece of a rendered message body
type Segment struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// MessageInfo represents message info
type MessageInfo struct {
	Index     int       `json:"index"`
	Id        string    `json:"id"`
	Direction string    `json:"direction"`
	Body      string    `json:"body"`
	Segments  []Segment `json:"segments"`
	TimeLabel string    `json:"time_label"`
	Status    string    `json:"status,omitempty"`
	Reactions []string  `json:"reactions"`
}

// LayoutInfo describes the panes for a viewport width
type LayoutInfo struct {
	Mode        string `json:"mode"`
	Width       int    `json:"width"`
	ShowList    bool   `json:"show_list"`
	ShowThread  bool   `json:"show_thread"`
	ShowBack    bool   `json:"show_back"`
	Placeholder bool   `json:"placeholder"`
	ListWidth   int    `json:"list_width"`
	ThreadWidth int    `json:"thread_width"`
}

// SessionInfo represents the selection state
type SessionInfo struct {
	ActiveId string      `json:"active_id,omitempty"`
	Selected bool        `json:"selected"`
	Query    string      `json:"query"`
	Layout   *LayoutInfo `json:"layout,omitempty"`
}

// Event is a store-change notification pushed over the websocket
type Event struct {
	Type           string `json:"type"`
	ConversationId string `json:"conversation_id,omitempty"`
	Index          int    `json:"index"`
	Status         string `json:"status,omitempty"`
	Token          string `json:"token,omitempty"`
	Query          string `json:"query,omitempty"`
}

// ===== Request types =====

// ConversationIdRequest carries a single conversation id
type ConversationIdRequest struct {
	ConversationId string `json:"conversation_id"`
}

// PresenceRequest sets the online flag of a contact
type PresenceRequest struct {
	ConversationId string `json:"conversation_id"`
	Online         bool   `json:"online"`
}

// SearchRequest represents search request
type SearchRequest struct {
	Query string `json:"query"`
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ReactRequest represents add reaction request
type ReactRequest struct {
	Index int    `json:"index"`
	Token string `json:"token"`
}

// ReceiveMessageRequest represents a simulated inbound message
type ReceiveMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	Text           string `json:"text"`
}

// ===== Response types =====

// MessagesResponse represents a conversation thread
type MessagesResponse struct {
	ConversationId string         `json:"conversation_id"`
	Messages       []*MessageInfo `json:"messages"`
}

// ReactResponse represents add reaction response
type ReactResponse struct {
	Added bool `json:"added"`
}

// ReceiveResponse represents simulated inbound response
type ReceiveResponse struct {
	Index int `json:"index"`
}

// PaletteResponse represents emoji palette response
type PaletteResponse struct {
	Palette []string `json:"palette"`
}
