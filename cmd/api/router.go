package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"bogo-backend/internal/shared/middleware"
	"bogo-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// Cart middleware configuration
	cartMiddlewareConfig := middleware.DefaultCartMiddlewareConfig(c.CartService)
	if os.Getenv("APP_ENV") == "development" {
		cartMiddlewareConfig.CookieSecure = false
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupProductRoutes(v1, c)
		setupCartRoutes(v1, c, cartMiddlewareConfig)
		setupAdminRoutes(v1, c)
	}

	return router
}

func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.ListProducts)
		products.GET("/:id", c.ProductHandler.GetProduct)
		products.GET("/:id/variants", c.ProductHandler.ListVariants)
	}
}

func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container, cartConfig middleware.CartMiddlewareConfig) {
	cart := v1.Group("/me/cart")
	cart.Use(
		middleware.OptionalAuthMiddleware(c.Config.JWT.Secret),
		middleware.CartMiddleware(cartConfig),
	)
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.PATCH("/items/:lineID", c.CartHandler.UpdateLine)
		cart.DELETE("/items/:lineID", c.CartHandler.RemoveLine)
		cart.POST("/coupons", c.CartHandler.ApplyCoupon)
		cart.DELETE("/coupons/:code", c.CartHandler.RemoveCoupon)
		cart.POST("/checkout", c.CartHandler.Checkout)
	}
}

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.Config.JWT.Secret),
		middleware.AdminOnly(),
	)
	{
		admin.GET("/coupons", c.CouponHandler.ListCoupons)
		admin.POST("/coupons", c.CouponHandler.CreateCoupon)
		admin.GET("/coupons/:id", c.CouponHandler.GetCoupon)
		admin.PATCH("/coupons/:id", c.CouponHandler.UpdateCoupon)
		admin.DELETE("/coupons/:id", c.CouponHandler.DeleteCoupon)

		admin.GET("/coupons/:id/rules", c.RuleHandler.GetRules)
		admin.PUT("/coupons/:id/rules", c.RuleHandler.ReplaceRules)

		admin.POST("/products", c.ProductHandler.CreateProduct)
		admin.PATCH("/products/:id/stock", c.ProductHandler.UpdateStock)

		admin.GET("/reports/usage", c.UsageHandler.ListRecords)
		admin.GET("/reports/usage/summary", c.UsageHandler.Summary)
		admin.GET("/reports/usage/export", c.UsageHandler.Export)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"time":     time.Now().UTC(),
		})
	}
}
