package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"transfera/internal/domain"
	"transfera/internal/handler"
	"transfera/internal/middleware"
	internalRedis "transfera/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler         *handler.AuthHandler
	BookingHandler      *handler.BookingHandler
	DriverHandler       *handler.DriverHandler
	NotificationHandler *handler.NotificationHandler
	RedisClient         *redis.Client
	RateLimiter         internalRedis.RateLimiterInterface
	NewRelicApp         *newrelic.Application
	JWTSecret           []byte
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.Default())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.AuthRequired(deps.JWTSecret)
	// After auth so the replay cache is scoped to the caller.
	idempotency := middleware.Idempotency(deps.RedisClient)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", deps.AuthHandler.Register)
			authRoutes.POST("/login", deps.AuthHandler.Login)
		}

		bookings := v1.Group("/bookings", auth, idempotency)
		{
			bookings.POST("",
				middleware.RequireRoles(domain.RoleClient),
				middleware.RateLimit(deps.RateLimiter),
				deps.BookingHandler.Create,
			)
			bookings.GET("", deps.BookingHandler.List)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
		}

		drivers := v1.Group("/drivers", auth, idempotency)
		{
			drivers.POST("/register", middleware.RequireRoles(domain.RoleDriver), deps.DriverHandler.Register)
			drivers.POST("/availability", middleware.RequireRoles(domain.RoleDriver), deps.DriverHandler.SetAvailability)
			drivers.POST("/:id/approve", middleware.RequireRoles(domain.RoleAdmin), deps.DriverHandler.Approve)
			drivers.GET("", middleware.RequireRoles(domain.RoleAdmin), deps.DriverHandler.GetAll)
		}

		notifications := v1.Group("/notifications", auth)
		{
			notifications.GET("", deps.NotificationHandler.List)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkRead)
		}
	}

	return router
}
