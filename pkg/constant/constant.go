package constant

import "time"

// Lifecycle delays for simulated acknowledgements
const (
	DeliveredDelay = 1500 * time.Millisecond
	SeenDelay      = 3000 * time.Millisecond
)

// Layout defaults
const (
	DefaultBreakpoint = 768 // below this width the mobile stack is used
	DefaultListWidth  = 320
)

// TimeLabelLayout formats message and preview time labels
const TimeLabelLayout = "15:04"

// Event types pushed to UI subscribers
const (
	EventConversationOpened  = "conversation_opened"
	EventConversationClosed  = "conversation_closed"
	EventConversationDeleted = "conversation_deleted"
	EventMessageSent         = "message_sent"
	EventMessageReceived     = "message_received"
	EventMessageStatus       = "message_status"
	EventReactionAdded       = "reaction_added"
	EventSearchChanged       = "search_changed"
	EventPresenceChanged     = "presence_changed"
)

// Metric namespace
const MetricsNamespace = "threadly"

// CellWidth approximates one terminal column in layout pixels
const CellWidth = 8
