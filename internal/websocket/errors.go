package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrClientClosed    = errors.New("client disconnected")
	ErrInvalidMessage  = errors.New("invalid message format")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUnknownIntent   = errors.New("unknown message type")
	ErrFlood           = errors.New("slow down, you are flooding")
)
