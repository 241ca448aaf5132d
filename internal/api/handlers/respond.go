package handlers

import (
	"net/http"

	"ecofinds/internal/apperr"
	"ecofinds/internal/logger"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindDeclined:        http.StatusBadRequest,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindPermission:      http.StatusForbidden,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindExternal:        http.StatusBadGateway,
}

// respondError writes {"error": ...} with the status for err's kind.
// Unclassified errors are logged and reported with fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	status, ok := statusByKind[apperr.KindOf(err)]
	if !ok {
		log.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": apperr.Message(err, fallback)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
