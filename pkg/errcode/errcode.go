package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// Is reports whether target carries the same code, so wrapped errors still match their sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Common errors (1xxx)
	ErrInvalidParam   = New(1001, "invalid parameter")
	ErrInternalServer = New(1002, "internal server error")

	// Conversation errors (4xxx)
	ErrMessageNotFound      = New(4001, "message not found")
	ErrConvNotFound         = New(4003, "conversation not found")
	ErrSendFailed           = New(4005, "message send failed")
	ErrInvalidInput         = New(4007, "message text is empty")
	ErrNoActiveConversation = New(4008, "no conversation selected")
	ErrInvalidReaction      = New(4007, "reaction token is empty") // same code as ErrInvalidInput

	// WebSocket errors (5xxx)
	ErrConnOverLimit   = New(5001, "connection over max limit")
	ErrInvalidProtocol = New(5003, "invalid protocol")
)
