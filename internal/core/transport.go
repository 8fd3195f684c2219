package core

import "errors"

// ErrTransportClosed is returned by Send after the connection is gone.
var ErrTransportClosed = errors.New("transport closed")

// ErrSendQueueFull is returned by Send when the peer cannot keep up.
var ErrSendQueueFull = errors.New("transport send queue full")

// Transport is one live duplex connection to a client. The connection
// layer owns it; the core only references it for outbound delivery.
type Transport interface {
	// Send queues one opaque UTF-8 payload for delivery. It must not
	// block on a slow peer; implementations fail fast instead.
	Send(text string) error

	// Close tears the connection down with a human-readable reason.
	// Safe to call more than once.
	Close(reason string)
}
