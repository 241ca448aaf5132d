package handlers

import (
	"errors"
	"net/http"

	"ecofinds/internal/apperr"
	"ecofinds/internal/logger"
	"ecofinds/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const demoOnlyMessage = "Payment processing is currently in demo mode only"

type PaymentHandler struct {
	processor payment.Processor
	demo      *payment.Simulated
	logger    *logger.Logger
}

// NewPaymentHandler serves intents through processor and the demo endpoint
// through demo, whatever the configured provider.
func NewPaymentHandler(processor payment.Processor, demo *payment.Simulated, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		processor: processor,
		demo:      demo,
		logger:    logger,
	}
}

type intentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodID string          `json:"paymentMethodId"`
	Description     string          `json:"description"`
}

type demoRequest struct {
	Amount         decimal.Decimal        `json:"amount"`
	PaymentMethod  payment.Method         `json:"paymentMethod"`
	PaymentDetails map[string]interface{} `json:"paymentDetails"`
	Description    string                 `json:"description"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req intentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount.IsZero() || req.PaymentMethodID == "" {
		badRequest(c, payment.ErrMissingPaymentInfo.Message)
		return
	}

	intent, err := h.processor.Charge(c.Request.Context(), payment.Charge{
		Amount:          req.Amount,
		Method:          payment.MethodCreditCard,
		PaymentMethodID: req.PaymentMethodID,
		Description:     req.Description,
	})
	h.respond(c, intent, err)
}

// Demo simulates a charge. Requests must carry paymentDetails.demo=true.
func (h *PaymentHandler) Demo(c *gin.Context) {
	var req demoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount.IsZero() || req.PaymentMethod == "" {
		badRequest(c, payment.ErrMissingPaymentInfo.Message)
		return
	}
	if demo, _ := req.PaymentDetails["demo"].(bool); !demo {
		badRequest(c, demoOnlyMessage)
		return
	}

	intent, err := h.demo.Charge(c.Request.Context(), payment.Charge{
		Amount:      req.Amount,
		Method:      req.PaymentMethod,
		CardNumber:  cardNumber(req.PaymentDetails),
		Details:     req.PaymentDetails,
		Description: req.Description,
	})
	h.respond(c, intent, err)
}

func (h *PaymentHandler) respond(c *gin.Context, intent *payment.Intent, err error) {
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && (appErr.Kind == apperr.KindValidation || appErr.Kind == apperr.KindDeclined) {
			badRequest(c, appErr.Message)
			return
		}
		h.logger.Error("Payment processing error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.Message(err, "Payment processing failed")})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"paymentIntent": intent,
	})
}

// cardNumber reads paymentDetails.cardDetails.number.
func cardNumber(details map[string]interface{}) string {
	card, ok := details["cardDetails"].(map[string]interface{})
	if !ok {
		return ""
	}
	number, _ := card["number"].(string)
	return number
}
