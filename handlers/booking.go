package handlers

import (
	"net/http"

	"guidely/middleware"
	"guidely/models"
	"guidely/services/booking"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// Create opens a new booking for the authenticated tourist.
func (h *BookingHandler) Create(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "invalid input: "+err.Error())
		return
	}
	userID, _ := middleware.Identity(c)
	input.TouristID = userID

	resp, err := h.Service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get returns a booking by ID.
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// List returns the caller's bookings.
func (h *BookingHandler) List(c *gin.Context) {
	userID, role := middleware.Identity(c)
	bookings, err := h.Service.ListForUser(c.Request.Context(), userID, role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Start begins the tour (assigned guide only).
func (h *BookingHandler) Start(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	b, err := h.Service.StartTour(c.Request.Context(), c.Param("bookingID"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Complete ends the tour (assigned guide only).
func (h *BookingHandler) Complete(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	b, err := h.Service.CompleteTour(c.Request.Context(), c.Param("bookingID"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Cancel cancels the booking and reports the refund tier applied.
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	resp, err := h.Service.CancelBooking(c.Request.Context(), c.Param("bookingID"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
