package http

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/core"
)

// wsTransport adapts one WebSocket connection to core.Transport. Sends
// go through a buffered queue drained by a single writer goroutine, so
// a slow peer fails its own sends instead of stalling a fan-out.
type wsTransport struct {
	conn   *websocket.Conn
	sendq  chan string
	closed chan struct{}
	once   sync.Once
	log    *zerolog.Logger
}

func newWSTransport(conn *websocket.Conn, queueSize int, logger *zerolog.Logger) *wsTransport {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &wsTransport{
		conn:   conn,
		sendq:  make(chan string, queueSize),
		closed: make(chan struct{}),
		log:    logger,
	}
}

// Send queues one text frame. It never blocks: a closed connection or
// a full queue returns an error instead.
func (t *wsTransport) Send(text string) error {
	select {
	case <-t.closed:
		return core.ErrTransportClosed
	default:
	}

	select {
	case t.sendq <- text:
		return nil
	case <-t.closed:
		return core.ErrTransportClosed
	default:
		return core.ErrSendQueueFull
	}
}

// Close marks the transport dead and closes the connection. Safe to
// call multiple times; only the first reason wins.
func (t *wsTransport) Close(reason string) {
	t.once.Do(func() {
		close(t.closed)
		if err := t.conn.Close(websocket.StatusNormalClosure, reason); err != nil {
			t.log.Debug().Err(err).Msg("close ws connection")
		}
	})
}

// writeLoop drains the send queue onto the wire. It exits when the
// context is cancelled or the transport is closed.
func (t *wsTransport) writeLoop(ctx context.Context) error {
	for {
		select {
		case text := <-t.sendq:
			if err := t.conn.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
				return err
			}
		case <-t.closed:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
