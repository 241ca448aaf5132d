package handlers

import (
	"net/http"

	"ecofinds/internal/auth"
	"ecofinds/internal/logger"
	"ecofinds/internal/notifications"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *notifications.Service
	logger        *logger.Logger
}

func NewNotificationHandler(notifications *notifications.Service, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	inbox, err := h.notifications.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inbox})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to update notification")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, h.logger, err, "Failed to update notifications")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notifications.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete notification")
		return
	}
	c.Status(http.StatusNoContent)
}
