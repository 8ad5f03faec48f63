package gateway

// Request identifiers
const (
	WSOpenConversation  = 1001
	WSCloseConversation = 1002
	WSSendMsg           = 1003
	WSReact             = 1004
	WSSearch            = 1005
	WSGetSession        = 1006
)

// Push identifiers
const (
	WSPushEvent     = 2001 // store-change event
	WSKickOnlineMsg = 2002
)
