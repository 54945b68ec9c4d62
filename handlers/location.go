package handlers

import (
	"net/http"

	"guidely/middleware"
	"guidely/services/location"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// LocationHandler exposes tour position tracking.
type LocationHandler struct {
	Service location.LocationService
}

func NewLocationHandler(svc location.LocationService) *LocationHandler {
	return &LocationHandler{Service: svc}
}

// Record stores a position ping from the assigned guide.
func (h *LocationHandler) Record(c *gin.Context) {
	var input struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "invalid input: "+err.Error())
		return
	}
	userID, _ := middleware.Identity(c)

	loc, err := h.Service.Record(c.Request.Context(), c.Param("bookingID"), userID, input.Latitude, input.Longitude)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// History returns the most recent pings for a booking.
func (h *LocationHandler) History(c *gin.Context) {
	updates, err := h.Service.History(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": updates})
}
