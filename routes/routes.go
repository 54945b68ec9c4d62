package routes

import (
	"net/http"

	"guidely/handlers"
	"guidely/middleware"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the engine exposes.
type Handlers struct {
	Booking      *handlers.BookingHandler
	Message      *handlers.MessageHandler
	Review       *handlers.ReviewHandler
	Location     *handlers.LocationHandler
	Notification *handlers.NotificationHandler
	Webhook      *handlers.WebhookHandler
}

// Register wires all endpoints onto the router. Everything except the
// payment webhook and the health probe sits behind the identity
// middleware.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	// Gateway callbacks authenticate by signature, not bearer token.
	r.POST("/api/payments/webhook", h.Webhook.HandleStripe)

	api := r.Group("/api", middleware.AuthMiddleware())

	booking := api.Group("/bookings")
	{
		booking.POST("", h.Booking.Create)
		booking.GET("", h.Booking.List)
		booking.GET("/:bookingID", h.Booking.Get)
		booking.POST("/:bookingID/start", h.Booking.Start)
		booking.POST("/:bookingID/complete", h.Booking.Complete)
		booking.POST("/:bookingID/cancel", h.Booking.Cancel)

		booking.GET("/:bookingID/messages", h.Message.List)
		booking.POST("/:bookingID/messages", h.Message.Send)
		booking.POST("/:bookingID/messages/read", h.Message.MarkRead)

		booking.POST("/:bookingID/review", h.Review.Create)
		booking.GET("/:bookingID/review", h.Review.GetForBooking)

		booking.POST("/:bookingID/location", h.Location.Record)
		booking.GET("/:bookingID/location", h.Location.History)
	}

	api.GET("/guides/:guideID/reviews", h.Review.ListForGuide)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.Poll)
		notifications.DELETE("", h.Notification.Clear)
	}
}
