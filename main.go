// File: guidely/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guidely/config"
	"guidely/database"
	bookingRepoPkg "guidely/database/repository/booking"
	guideRepoPkg "guidely/database/repository/guide"
	locationRepoPkg "guidely/database/repository/location"
	messageRepoPkg "guidely/database/repository/message"
	reviewRepoPkg "guidely/database/repository/review"
	"guidely/handlers"
	"guidely/middleware"
	"guidely/routes"
	"guidely/services/booking"
	"guidely/services/location"
	"guidely/services/messaging"
	"guidely/services/notification"
	"guidely/services/payment"
	"guidely/services/review"
	"guidely/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	mongoClient, err := database.Connect(context.Background())
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	db := database.Database(mongoClient)
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), mongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// Repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(db)
	guideRepo := guideRepoPkg.NewMongoGuideRepo(db)
	messageRepo := messageRepoPkg.NewMongoMessageRepo(db)
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo(db)
	locationRepo := locationRepoPkg.NewMongoLocationRepo(db)

	// Collaborators.
	gateway := payment.NewStripeGateway(
		config.AppConfig.StripeKey,
		config.AppConfig.StripeWebhookSecret,
		logger,
	)
	fanout := notification.NewFanout()

	// Services.
	bookingService := &booking.DefaultBookingService{
		Repo:           bookingRepo,
		GuideRepo:      guideRepo,
		Payments:       gateway,
		Notifier:       fanout,
		Cache:          utils.GetCacheClient(),
		Logger:         logger,
		CommissionRate: config.AppConfig.CommissionRate,
		Currency:       config.AppConfig.Currency,
	}
	messageService := &messaging.DefaultMessageService{
		Repo:       messageRepo,
		BookingSvc: bookingService,
		Notifier:   fanout,
		Logger:     logger,
	}
	reviewService := &review.DefaultReviewService{
		Repo:       reviewRepo,
		GuideRepo:  guideRepo,
		BookingSvc: bookingService,
		Logger:     logger,
	}
	locationService := &location.DefaultLocationService{
		Repo:       locationRepo,
		BookingSvc: bookingService,
		Notifier:   fanout,
		Logger:     logger,
	}

	routes.Register(router, routes.Handlers{
		Booking:      handlers.NewBookingHandler(bookingService),
		Message:      handlers.NewMessageHandler(messageService),
		Review:       handlers.NewReviewHandler(reviewService),
		Location:     handlers.NewLocationHandler(locationService),
		Notification: handlers.NewNotificationHandler(fanout),
		Webhook:      handlers.NewWebhookHandler(gateway, bookingService, logger),
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
