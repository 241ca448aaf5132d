package middleware

import (
	"errors"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"ecofinds/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 JSON error and logs it with the
// request id, method and path. A panic caused by the client hanging up is
// dropped without a response.
func Recovery(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			log := logger.With(
				"request_id", c.GetString(ContextRequestID),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if clientGone(recovered) {
				log.Warn("Client closed connection: %v", recovered)
				c.Abort()
				return
			}

			if gin.IsDebugging() {
				log.Error("Panic serving request: %v\n%s", recovered, debug.Stack())
			} else {
				log.Error("Panic serving request: %v", recovered)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}()

		c.Next()
	}
}

func clientGone(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if !errors.As(err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
