package handlers

import (
	"net/http"

	"guidely/services/booking"
	"guidely/services/payment"
	"guidely/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives payment gateway callbacks. A verified
// payment_intent.succeeded event confirms the referenced booking; bad
// signatures are rejected without touching any state.
type WebhookHandler struct {
	Gateway    payment.Gateway
	BookingSvc booking.BookingService
	Logger     *zap.Logger
}

func NewWebhookHandler(gw payment.Gateway, svc booking.BookingService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Gateway: gw, BookingSvc: svc, Logger: logger}
}

func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodePayment, "unreadable payload")
		return
	}

	event, err := h.Gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if event.BookingID == "" {
		// Event type the engine does not track; acknowledge and move on.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if _, err := h.BookingSvc.ConfirmPayment(c.Request.Context(), event.BookingID, event.IntentID); err != nil {
		h.Logger.Error("webhook confirmation failed",
			zap.String("bookingId", event.BookingID), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
