package http

import (
	"github.com/beanery/storefront/config"
	"github.com/beanery/storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router. A nil auth disables the
// admin routes.
func SetupRouter(cfg *config.Config, handler *Handler, auth Authenticator) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	v1.Use(LanguageMiddleware(domain.Language(cfg.I18n.DefaultLanguage)))
	{
		products := v1.Group("/products")
		{
			products.GET("/:id", handler.GetProduct)
			products.POST("/:id/resolve", handler.ResolveVariant)
		}

		carts := v1.Group("/carts")
		{
			carts.POST("", handler.CreateCart)
			carts.GET("/:cartId", handler.GetCart)
			carts.POST("/:cartId/items", handler.AddCartItem)
			carts.PATCH("/:cartId/items/:lineId", handler.UpdateCartItem)
			carts.DELETE("/:cartId/items/:lineId", handler.RemoveCartItem)
		}

		if auth != nil {
			v1.POST("/admin/login", AdminLogin(auth))

			admin := v1.Group("/admin", AdminAuthMiddleware(auth))
			{
				admin.GET("/products", handler.AdminListProducts)
				admin.PUT("/products/:id", handler.AdminSaveProduct)
			}
		}
	}

	return router
}
