package handlers

import (
	"net/http"

	"guidely/middleware"
	"guidely/services/messaging"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// MessageHandler exposes the per-booking message thread.
type MessageHandler struct {
	Service messaging.MessageService
}

func NewMessageHandler(svc messaging.MessageService) *MessageHandler {
	return &MessageHandler{Service: svc}
}

// Send posts a message to the booking thread.
func (h *MessageHandler) Send(c *gin.Context) {
	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "invalid input: "+err.Error())
		return
	}
	userID, _ := middleware.Identity(c)

	m, err := h.Service.Send(c.Request.Context(), c.Param("bookingID"), userID, input.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// List returns the thread in chronological order.
func (h *MessageHandler) List(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	messages, err := h.Service.List(c.Request.Context(), c.Param("bookingID"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRead marks the other party's messages as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	count, err := h.Service.MarkRead(c.Request.Context(), c.Param("bookingID"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": count})
}
