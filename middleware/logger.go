package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/util"
)

// Logger is a middleware that logs incoming HTTP requests. When the principal
// middleware has resolved a caller further down the chain, the subject user id
// and role are stamped onto the request log line so access attempts can be
// traced per user.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request details
		end := time.Now()
		latency := end.Sub(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		}
		if value, exists := c.Get(util.PrincipalContextKey); exists {
			if principal, ok := value.(model.Principal); ok {
				fields = append(fields,
					zap.String("userID", principal.UserID),
					zap.String("role", string(principal.Role)))
			}
		}

		if len(c.Errors) > 0 {
			// Log errors if any
			for _, e := range c.Errors.Errors() {
				logger.Error("Request error", append(fields, zap.String("error", e))...)
			}
		} else {
			logger.Info("Request processed", fields...)
		}
	}
}
