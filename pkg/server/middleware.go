package server

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

const userKey = "user_email"

// requestID tags every request with an identifier for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = fmt.Sprintf("req_%d_%d", time.Now().UnixNano(), rand.Intn(100000))
		}
		c.Set(requestIDHeader, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// requestLogger logs one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		rid, _ := c.Get(requestIDHeader)

		logger.Info("request",
			zap.String("request_id", fmt.Sprint(rid)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// authenticated verifies the session cookie and the allow-list. Unauthorized
// requests are redirected into the login flow; authenticated but not
// allow-listed users get a 403.
func (s *Server) authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.Redirect(http.StatusFound, "/auth/google")
			c.Abort()
			return
		}

		email, err := verifySession(s.cfg.SessionSecret, cookie)
		if err != nil {
			c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/auth/google")
			c.Abort()
			return
		}

		if !s.isAllowed(email) {
			s.logger.Warn("Access denied, e-mail not in allow-list", zap.String("email", email))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("access denied: %s is not in the allow-list", email),
			})
			return
		}

		c.Set(userKey, email)
		c.Next()
	}
}
