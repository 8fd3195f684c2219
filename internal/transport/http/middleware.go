package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/session"
)

// sessionCookieMaxAge keeps issued cookies for 30 days.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// SessionMiddleware makes sure every page visitor leaves with a valid
// session cookie. Existing valid cookies are kept; missing or garbage
// cookies are replaced with a freshly minted identity.
func SessionMiddleware(sessions *session.Manager, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(session.CookieName); err == nil {
			if _, verifyErr := sessions.Verify(cookie); verifyErr == nil {
				c.Next()
				return
			}
			logger.Debug().Msg("replacing invalid session cookie")
		}

		identity, token, err := sessions.Issue()
		if err != nil {
			logger.Error().Err(err).Msg("issue session")
			c.Next()
			return
		}
		c.SetCookie(session.CookieName, token, sessionCookieMaxAge, "/", "", false, true)
		logger.Debug().Str("identity", identity).Msg("issued session")
		c.Next()
	}
}

// LoggerMiddleware logs each HTTP request after it completes.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
