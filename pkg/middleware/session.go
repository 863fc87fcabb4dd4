package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	SessionHeader     = "X-Session-ID"
	SessionQueryParam = "session_id"

	sessionContextKey = "session_id"
)

// SessionMiddleware picks up the caller's anonymous session, if any, from the
// X-Session-ID header or the session_id query parameter. Sessions are
// self-asserted: nothing is verified and requests without one pass through.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := strings.TrimSpace(c.GetHeader(SessionHeader))
		if session == "" {
			session = strings.TrimSpace(c.Query(SessionQueryParam))
		}
		if session != "" {
			c.Set(sessionContextKey, session)
		}
		c.Next()
	}
}

// Session returns the session stored by SessionMiddleware, or "".
func Session(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
