package stub

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the stub backend's Gin router. Routes
// mirror the production cart/orders contract, including the remove
// endpoint's DELETE-with-body shape.
func NewRouter(b *Backend, tokens *TokenStore, environment string, logger *zap.Logger) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(AuthMiddleware(tokens, logger))
	{
		cart := api.Group("/cart")
		{
			cart.GET("/:userId", HandleGetCart(b, logger))
			cart.POST("/add", HandleAddItem(b, logger))
			cart.PUT("/update", HandleUpdateItem(b, logger))
			cart.DELETE("/remove", HandleRemoveItem(b, logger))
			cart.DELETE("/clear/:userId", HandleClearCart(b, logger))
			cart.POST("/apply-coupon", HandleApplyCoupon(b, logger))
		}

		orders := api.Group("/orders")
		{
			orders.POST("/place-order", HandlePlaceOrder(b, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
