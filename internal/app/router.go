package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"courier/internal/config"
	"courier/internal/handler"
	"courier/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler     *handler.BookingHandler
	TransactionHandler *handler.TransactionHandler
	PaymentHandler     *handler.PaymentHandler
	ProfileHandler     *handler.ProfileHandler
	TrackingHandler    *handler.TrackingHandler
	ReceiptHandler     *handler.ReceiptHandler
	AdminHandler       *handler.AdminHandler
	TokenVerifier      middleware.TokenVerifier
	RedisClient        redis.Cmdable
	NewRelicApp        *newrelic.Application
	Logger             *zap.Logger
	Server             config.ServerConfig
	RateLimit          config.RateLimitConfig
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(cors.New(corsConfig(deps.Server.AllowOrigins)))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicAttributes())
	}

	if deps.RateLimit.RequestsPerMinute > 0 {
		limiter := middleware.NewRateLimiter(deps.RateLimit.RequestsPerMinute, deps.RateLimit.Burst)
		router.Use(limiter.Middleware(deps.Logger))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Logger))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Booking routes.
		booking := api.Group("/booking")
		{
			booking.POST("", deps.BookingHandler.CreateBooking)
			booking.GET("", deps.BookingHandler.ListBookings)
			booking.PATCH("", deps.BookingHandler.UpdateStatus)
			booking.GET("/:id/receipt", deps.ReceiptHandler.GetReceipt)
		}

		// Wallet routes.
		api.POST("/transactions", deps.TransactionHandler.RecordTransaction)
		api.GET("/transactions", deps.TransactionHandler.ListTransactions)
		api.GET("/balance", deps.TransactionHandler.GetBalance)

		// Payment routes.
		payments := api.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.PayBooking)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}

		// Profile routes.
		api.POST("/profile", deps.ProfileHandler.SaveProfile)
		api.GET("/profile", deps.ProfileHandler.GetProfile)

		// Routing and tracking routes.
		api.GET("/route", deps.TrackingHandler.GetRoute)
		tracking := api.Group("/tracking/:bookingId")
		{
			tracking.GET("", deps.TrackingHandler.GetPosition)
			tracking.POST("/start", deps.TrackingHandler.StartTracking)
			tracking.POST("/stop", deps.TrackingHandler.StopTracking)
			tracking.DELETE("", deps.TrackingHandler.ClearTracking)
		}

		// Admin routes.
		api.POST("/admin/login", deps.AdminHandler.Login)
		admin := api.Group("/admin", middleware.AdminAuth(deps.TokenVerifier))
		{
			admin.GET("/stats", deps.AdminHandler.Stats)
			admin.GET("/bookings", deps.AdminHandler.ListBookings)
			admin.GET("/bookings/:id", deps.AdminHandler.GetBooking)
			admin.PATCH("/bookings/:id/status", deps.AdminHandler.UpdateBookingStatus)
			admin.GET("/bookings/:id/receipt", deps.ReceiptHandler.GetReceipt)
			admin.GET("/payments", deps.AdminHandler.ListPayments)
			admin.GET("/payments/:id", deps.AdminHandler.GetPayment)
			admin.GET("/users", deps.AdminHandler.ListUsers)
			admin.POST("/users", deps.AdminHandler.CreateUser)
			admin.GET("/users/:id", deps.AdminHandler.GetUser)
			admin.GET("/tracking/nearby", deps.TrackingHandler.Nearby)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.IdempotencyHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.ReplayedHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
