package handlers

import (
	"net/http"

	"ecofinds/internal/apperr"
	"ecofinds/internal/auth"
	"ecofinds/internal/checkout"
	"ecofinds/internal/logger"
	"ecofinds/internal/payment"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout *checkout.Manager
	logger   *logger.Logger
}

func NewCheckoutHandler(checkout *checkout.Manager, logger *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

type methodRequest struct {
	Method payment.Method `json:"method" binding:"required"`
}

func (h *CheckoutHandler) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.checkout.Methods()})
}

func (h *CheckoutHandler) Begin(c *gin.Context) {
	sess, err := h.checkout.Begin(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to start checkout")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": sess})
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	sess, err := h.checkout.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch checkout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sess})
}

func (h *CheckoutHandler) Cancel(c *gin.Context) {
	if err := h.checkout.Cancel(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, h.logger, err, "Failed to cancel checkout")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CheckoutHandler) SelectMethod(c *gin.Context) {
	var req methodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please select a payment method")
		return
	}
	sess, err := h.checkout.SelectMethod(c.Request.Context(), auth.UserID(c), req.Method)
	h.respond(c, sess, err, "Failed to select payment method")
}

func (h *CheckoutHandler) EnterDetails(c *gin.Context) {
	var details checkout.Details
	if err := c.ShouldBindJSON(&details); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess, err := h.checkout.EnterDetails(c.Request.Context(), auth.UserID(c), details)
	h.respond(c, sess, err, "Failed to save payment details")
}

func (h *CheckoutHandler) Submit(c *gin.Context) {
	sess, err := h.checkout.Submit(c.Request.Context(), auth.UserID(c))
	h.respond(c, sess, err, "Payment failed. Please try again.")
}

// respond includes the session snapshot on failure too, so the client can
// redisplay the retained details and the current step.
func (h *CheckoutHandler) respond(c *gin.Context, sess checkout.Session, err error, fallback string) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"data": sess})
		return
	}
	if sess.UserID == "" {
		respondError(c, h.logger, err, fallback)
		return
	}

	status, ok := statusByKind[apperr.KindOf(err)]
	if !ok {
		h.logger.Error("%s: %v", fallback, err)
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": apperr.Message(err, fallback), "data": sess})
}
