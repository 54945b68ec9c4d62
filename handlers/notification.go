package handlers

import (
	"net/http"
	"time"

	"guidely/middleware"
	"guidely/services/notification"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the polling fan-out. Clients poll with
// their last-seen timestamp as the cursor and tolerate duplicates.
type NotificationHandler struct {
	Fanout *notification.Fanout
}

func NewNotificationHandler(f *notification.Fanout) *NotificationHandler {
	return &NotificationHandler{Fanout: f}
}

// Poll returns the caller's buffered events, optionally only those after
// the `since` cursor (RFC 3339).
func (h *NotificationHandler) Poll(c *gin.Context) {
	userID, _ := middleware.Identity(c)

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "since must be RFC 3339")
			return
		}
		since = &t
	}

	events := h.Fanout.Poll(userID, since)
	c.JSON(http.StatusOK, gin.H{"events": events, "polledAt": time.Now()})
}

// Clear drops the caller's queue.
func (h *NotificationHandler) Clear(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	h.Fanout.Clear(userID)
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
