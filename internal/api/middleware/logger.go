package middleware

import (
	"time"

	"ecofinds/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request. Server errors are logged at error
// level.
func Logger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		reqLogger := logger.With("request_id", c.GetString(ContextRequestID))
		log := reqLogger.Info
		if c.Writer.Status() >= 500 {
			log = reqLogger.Error
		}
		log("[%s] %s %s %d %s %s",
			start.Format(time.RFC3339),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
