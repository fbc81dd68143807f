package domain

import "errors"

var (
	ErrSessionClosed    = errors.New("session closed")
	ErrSendQueueFull    = errors.New("send queue full")
	ErrUnknownEvent     = errors.New("unknown event type")
	ErrMalformedPayload = errors.New("malformed payload")
)
