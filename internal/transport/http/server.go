package http

import (
	_ "embed"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/session"
)

//go:embed web/index.html
var indexHTML []byte

// NewServer builds the HTTP server: landing page (which issues the
// session cookie), health probe, and the WebSocket endpoint.
func NewServer(game *core.GameServer, sessions *session.Manager, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/", SessionMiddleware(sessions, logger), indexHandler)
	router.GET("/healthz", healthHandler)

	ws := NewWSHandler(game, sessions, cfg.SendQueueSize, logger)
	router.GET("/ws", ws.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func indexHandler(c *gin.Context) {
	c.Data(stdhttp.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
