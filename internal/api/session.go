package api

import (
	"github.com/eventease-api/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const sessionKey = "session"

// sessionMiddleware attaches the caller's session when a valid token is
// present. It never rejects a request; handlers decide what needs a session.
func sessionMiddleware(tokens *auth.TokenManager, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractToken(c.Request, cookieName)
		if token != "" && tokens != nil {
			sess, err := tokens.Parse(token)
			if err != nil {
				log.Debug().Err(err).Msg("Ignoring invalid session token")
			} else {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

// currentSession returns the request's session or nil
func currentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}
