package store

import "errors"

var (
	ErrServerNotFound  = errors.New("server not found")
	ErrChannelNotFound = errors.New("channel not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfDirect      = errors.New("cannot open a direct channel with yourself")
	ErrEmptyEmoji      = errors.New("emoji is required")
)
