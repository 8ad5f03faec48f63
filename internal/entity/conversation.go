package entity

// GroupMetadata describes the circle a conversation belongs to
type GroupMetadata struct {
	GroupId     string   `json:"group_id" mapstructure:"group_id"`
	GroupName   string   `json:"group_name" mapstructure:"group_name"`
	MemberNames []string `json:"member_names" mapstructure:"member_names"`
}

// Conversation represents a chat thread with one contact
type Conversation struct {
	Id              string        `json:"conversation_id" mapstructure:"id"`
	Name            string        `json:"name" mapstructure:"name"`
	AvatarUrl       string        `json:"avatar_url" mapstructure:"avatar_url"`
	LastMessage     string        `json:"last_message" mapstructure:"last_message"`
	LastMessageTime string        `json:"last_message_time" mapstructure:"last_message_time"`
	DeliveryState   MessageStatus `json:"delivery_state,omitempty" mapstructure:"-"`
	Online          bool          `json:"online" mapstructure:"online"`
	LastOpenedAt    int64         `json:"last_opened_at" mapstructure:"last_opened_at"`
	Unread          bool          `json:"unread" mapstructure:"unread"`
	Group           GroupMetadata `json:"group" mapstructure:"group"`
}

// Clone returns a deep copy of the conversation
func (c *Conversation) Clone() Conversation {
	out := *c
	out.Group.MemberNames = append(make([]string, 0, len(c.Group.MemberNames)), c.Group.MemberNames...)
	return out
}

// ConversationInfo represents conversation info for API response
type ConversationInfo struct {
	Conversation
	Active bool `json:"active"`
}
