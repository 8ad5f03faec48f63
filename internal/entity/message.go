package entity

// Direction tells who authored a message
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// MessageStatus is the delivery state of an outbound message.
// The zero value means no status (inbound messages, empty conversations).
type MessageStatus string

const (
	StatusNone      MessageStatus = ""
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusSeen      MessageStatus = "seen"
)

// Rank orders statuses along sent -> delivered -> seen
func (s MessageStatus) Rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusSeen:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is one of the known non-empty statuses
func (s MessageStatus) Valid() bool {
	return s.Rank() > 0
}

// CanAdvanceTo reports whether moving from s to next keeps the progression monotonic
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	return next.Valid() && next.Rank() > s.Rank()
}

// Message represents a single chat message
type Message struct {
	Id        string        `json:"id" mapstructure:"id"`
	Direction Direction     `json:"direction" mapstructure:"direction"`
	Body      string        `json:"body" mapstructure:"body"`
	TimeLabel string        `json:"time_label" mapstructure:"time_label"`
	Status    MessageStatus `json:"status,omitempty" mapstructure:"status"`
	Reactions []string      `json:"reactions" mapstructure:"reactions"`
}

// Clone returns a deep copy of the message
func (m *Message) Clone() Message {
	out := *m
	out.Reactions = append(make([]string, 0, len(m.Reactions)), m.Reactions...)
	return out
}

// HasReaction checks if token is already attached
func (m *Message) HasReaction(token string) bool {
	for _, r := range m.Reactions {
		if r == token {
			return true
		}
	}
	return false
}

// MessageInfo represents message info for API response
type MessageInfo struct {
	Index     int           `json:"index"`
	Id        string        `json:"id"`
	Direction Direction     `json:"direction"`
	Body      string        `json:"body"`
	Segments  []Segment     `json:"segments"`
	TimeLabel string        `json:"time_label"`
	Status    MessageStatus `json:"status,omitempty"`
	Reactions []string      `json:"reactions"`
}

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo(index int) *MessageInfo {
	reactions := append([]string{}, m.Reactions...)
	return &MessageInfo{
		Index:     index,
		Id:        m.Id,
		Direction: m.Direction,
		Body:      m.Body,
		Segments:  ParseBody(m.Body),
		TimeLabel: m.TimeLabel,
		Status:    m.Status,
		Reactions: reactions,
	}
}
