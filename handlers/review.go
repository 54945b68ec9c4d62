package handlers

import (
	"net/http"
	"strconv"

	"guidely/middleware"
	"guidely/services/review"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes review creation and guide review listings.
type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

// Create submits the tourist's one-off review of a completed booking.
func (h *ReviewHandler) Create(c *gin.Context) {
	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "invalid input: "+err.Error())
		return
	}
	userID, _ := middleware.Identity(c)

	rev, err := h.Service.Create(c.Request.Context(), c.Param("bookingID"), userID, input.Rating, input.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

// ListForGuide returns one page of a guide's reviews.
func (h *ReviewHandler) ListForGuide(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	reviews, err := h.Service.ListForGuide(c.Request.Context(), c.Param("guideID"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "page": page, "limit": limit})
}

// GetForBooking returns the booking's review, if any.
func (h *ReviewHandler) GetForBooking(c *gin.Context) {
	rev, err := h.Service.GetForBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}
