package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/controllers"
	"github.com/kendall-kelly/modamedidas-api/middleware"
	"github.com/kendall-kelly/modamedidas-api/models"
)

// Limiters holds the request budgets applied by the router
type Limiters struct {
	Global middleware.Limiter
	Auth   middleware.Limiter
}

// NewLimiters builds the limiters named by the configuration. A redis
// limiter shared by every instance is used when REDIS_URL is set.
func NewLimiters(cfg *config.Config) (Limiters, error) {
	if cfg.RedisURL == "" {
		return Limiters{
			Global: middleware.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
			Auth:   middleware.NewMemoryLimiter(cfg.AuthRateLimitRequests, cfg.RateLimitWindow),
		}, nil
	}

	client, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return Limiters{}, err
	}
	log.Printf("Rate limits shared through redis")
	return Limiters{
		Global: middleware.NewRedisLimiter(client, "global", cfg.RateLimitRequests, cfg.RateLimitWindow),
		Auth:   middleware.NewRedisLimiter(client, "auth", cfg.AuthRateLimitRequests, cfg.RateLimitWindow),
	}, nil
}

// Setup mounts every API route on router
func Setup(router *gin.Engine, cfg *config.Config, limiters Limiters) {
	router.Use(middleware.SecurityHeaders(cfg), middleware.Compression(), middleware.CORS(cfg))
	if limiters.Global != nil {
		router.Use(middleware.RateLimit(limiters.Global))
	}

	v1 := router.Group("/api/v1")

	// Public routes
	v1.GET("/health", controllers.HealthCheck)
	v1.GET("/health/db", controllers.DatabaseStatus)
	v1.GET("/uploads/:filename", controllers.GetUploadedImage)
	v1.GET("/gallery/public", controllers.ListPublicGallery)

	auth := v1.Group("/auth")
	{
		credentials := auth.Group("")
		if limiters.Auth != nil {
			credentials.Use(middleware.RateLimit(limiters.Auth))
		}
		credentials.POST("/register", controllers.Register)
		credentials.POST("/login", controllers.Login)
	}

	// Everything below needs a designer
	protected := v1.Group("")
	protected.Use(middleware.EnsureValidToken(cfg), middleware.LoadDesigner(config.GetDB))
	{
		me := protected.Group("/auth/me")
		me.GET("", controllers.GetMyProfile)
		me.PUT("", controllers.UpdateMyProfile)
		me.POST("/logo", controllers.UploadLogo)

		clients := protected.Group("/clients")
		clients.GET("", controllers.ListClients)
		clients.POST("", controllers.CreateClient)
		clients.GET("/:id", controllers.GetClient)
		clients.PUT("/:id", controllers.UpdateClient)
		clients.DELETE("/:id", controllers.DeleteClient)
		clients.POST("/:id/photo", controllers.UploadClientPhoto)

		clients.GET("/:id/measures", controllers.ListMeasures)
		clients.POST("/:id/measures", controllers.CreateMeasure)
		clients.GET("/:id/measures/latest", controllers.GetLatestMeasure)
		clients.GET("/:id/measures/:measureId", controllers.GetMeasure)
		clients.PUT("/:id/measures/:measureId", controllers.UpdateMeasure)
		clients.DELETE("/:id/measures/:measureId", controllers.DeleteMeasure)
		clients.GET("/:id/measures/:measureId/ficha", controllers.DownloadFicha)

		protected.GET("/measures/recent", controllers.GetRecentMeasures)

		appointments := protected.Group("/appointments")
		appointments.GET("", controllers.ListAppointments)
		appointments.POST("", controllers.CreateAppointment)
		appointments.GET("/upcoming", controllers.GetUpcomingAppointments)
		appointments.GET("/stats", controllers.GetAppointmentStats)
		appointments.GET("/:id", controllers.GetAppointment)
		appointments.PUT("/:id", controllers.UpdateAppointment)
		appointments.DELETE("/:id", controllers.DeleteAppointment)

		quotes := protected.Group("/quotes")
		quotes.GET("", controllers.ListQuotes)
		quotes.POST("", controllers.CreateQuote)
		quotes.GET("/stats", controllers.GetQuoteStats)
		quotes.GET("/:id", controllers.GetQuote)
		quotes.PUT("/:id", controllers.UpdateQuote)
		quotes.DELETE("/:id", controllers.DeleteQuote)
		quotes.POST("/:id/convert-to-order", controllers.ConvertQuoteToOrder)

		orders := protected.Group("/orders")
		orders.GET("", controllers.ListOrders)
		orders.POST("", controllers.CreateOrder)
		orders.GET("/kanban", controllers.GetOrdersKanban)
		orders.GET("/upcoming", controllers.GetUpcomingOrders)
		orders.GET("/stats", controllers.GetOrderStats)
		orders.GET("/:id", controllers.GetOrder)
		orders.PUT("/:id", controllers.UpdateOrder)
		orders.DELETE("/:id", controllers.DeleteOrder)
		orders.PATCH("/:id/status", controllers.UpdateOrderStatus)
		orders.POST("/:id/payment", controllers.AddPayment)

		services := protected.Group("/services")
		services.GET("", controllers.ListServices)
		services.POST("", controllers.CreateService)
		services.GET("/by-category", controllers.GetServicesByCategory)
		services.GET("/:id", controllers.GetService)
		services.PUT("/:id", controllers.UpdateService)
		services.DELETE("/:id", controllers.DeleteService)

		gallery := protected.Group("/gallery")
		gallery.GET("", controllers.ListGalleryItems)
		gallery.POST("", controllers.CreateGalleryItem)
		gallery.GET("/categories", controllers.GetGalleryCategories)
		gallery.GET("/:id", controllers.GetGalleryItem)
		gallery.PUT("/:id", controllers.UpdateGalleryItem)
		gallery.DELETE("/:id", controllers.DeleteGalleryItem)

		templates := protected.Group("/templates")
		templates.GET("", controllers.ListTemplates)
		templates.POST("", controllers.CreateTemplate)
		templates.POST("/init-system", middleware.RequireRole(models.RoleAdmin), controllers.InitSystemTemplates)
		templates.GET("/:id", controllers.GetTemplate)
		templates.PUT("/:id", controllers.UpdateTemplate)
		templates.DELETE("/:id", controllers.DeleteTemplate)
	}
}
