package http

import (
	"context"
	"errors"
	"io"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/session"
)

// WSHandler upgrades connections and bridges them to the game server.
// It owns the transport lifecycle: join before the first frame, one
// guaranteed leave on any exit path.
type WSHandler struct {
	game      *core.GameServer
	sessions  *session.Manager
	queueSize int
	log       *zerolog.Logger
}

// NewWSHandler builds the WebSocket endpoint handler.
func NewWSHandler(game *core.GameServer, sessions *session.Manager, queueSize int, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		game:      game,
		sessions:  sessions,
		queueSize: queueSize,
		log:       logger,
	}
}

// Handle is the gin handler for GET /ws.
func (h *WSHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	identity, identityErr := h.identityFromRequest(c)

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	// No valid session: refuse without ever touching the core.
	if identityErr != nil {
		h.log.Warn().Err(identityErr).Msg("ws connection without session")
		conn.Close(websocket.StatusPolicyViolation, "session required")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transport := newWSTransport(conn, h.queueSize, h.log)
	defer transport.Close("closing")

	h.game.Join(ctx, identity, transport)
	defer h.game.Leave(ctx, identity, transport)

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- transport.writeLoop(ctx)
	}()

	readErr := h.readLoop(ctx, conn, identity)
	cancel()
	<-writeErr

	status := websocket.StatusNormalClosure
	reason := "closing"
	if readErr != nil && !errors.Is(readErr, context.Canceled) && !errors.Is(readErr, io.EOF) {
		if s := websocket.CloseStatus(readErr); s != -1 {
			status = s
		}
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			h.log.Warn().Err(readErr).Str("identity", identity).Msg("ws connection closed with error")
			reason = "read error"
		}
	}
	conn.Close(status, reason)
}

// readLoop forwards inbound text frames to the dispatcher, one at a
// time, preserving per-connection ordering. Binary frames never reach
// the core.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, identity string) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			h.log.Debug().Str("identity", identity).Msg("dropping non-text frame")
			continue
		}
		h.game.Handle(ctx, identity, string(data))
	}
}

// identityFromRequest resolves the caller's identity from the signed
// session cookie. The core never sees a connection without one.
func (h *WSHandler) identityFromRequest(c *gin.Context) (string, error) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return "", errors.New("missing session cookie")
	}
	return h.sessions.Verify(cookie)
}
