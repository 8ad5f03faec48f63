package sdk

import (
	"errors"
	"fmt"
)

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// IsSuccess checks if the error code indicates success
func (e *Error) IsSuccess() bool {
	return e.Code == 0
}

// Common error codes
const (
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam   = 1001
	CodeInternalServer = 1002

	// Chat errors (4xxx)
	CodeMessageNotFound      = 4001
	CodeConvNotFound         = 4003
	CodeSendFailed           = 4005
	CodeInvalidInput         = 4007
	CodeNoActiveConversation = 4008

	// WebSocket errors (5xxx)
	CodeConnOverLimit   = 5001
	CodeInvalidProtocol = 5003
)

// IsCode reports whether err is an API error with the given code
func IsCode(err error, code int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
