package gateway

import "errors"

// Connection-level errors; business failures travel as *errcode.Error in the response
var (
	ErrConnClosed       = errors.New("connection closed")
	ErrWriteChannelFull = errors.New("write channel full")
	ErrInvalidProtocol  = errors.New("invalid protocol")
)
