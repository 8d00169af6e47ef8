package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hazique/iotstore-backend/config"
	"github.com/hazique/iotstore-backend/internal/app/controller"
	"github.com/hazique/iotstore-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	inventoryController *controller.InventoryController
	useCaseController   *controller.UseCaseController
	uploadController    *controller.UploadController
	wsController        *controller.WSController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	inventoryController *controller.InventoryController,
	useCaseController *controller.UseCaseController,
	uploadController *controller.UploadController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		cartController:      cartController,
		orderController:     orderController,
		inventoryController: inventoryController,
		useCaseController:   useCaseController,
		uploadController:    uploadController,
		wsController:        wsController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "IoT Store API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)

			users := auth.Group("/users",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
			)
			{
				users.GET("", r.authController.ListUsers)
				users.PUT("/:id", r.authController.UpdateUserRole)
				users.DELETE("/:id", r.authController.DeleteUser)
			}
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProductByID)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
		}

		cart := api.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveCartItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := api.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("/place", r.orderController.PlaceOrder)
			orders.POST("/buynow", r.orderController.BuyNow)
			orders.GET("/buynow-items", r.orderController.GetBuyNowItems)
			orders.GET("/summary", r.orderController.GetOrderSummary)
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
			orders.DELETE("/:source/:productID", r.orderController.RemovePendingItem)
		}

		inventory := api.Group("/inventory",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			inventory.POST("/movements", r.inventoryController.RecordMovement)
			inventory.GET("/movements", r.inventoryController.ListMovements)
			inventory.GET("/movements/:id", r.inventoryController.GetMovementByID)
			inventory.GET("/products/:id/history", r.inventoryController.GetProductHistory)
			inventory.GET("/low-stock", r.inventoryController.GetLowStock)
			inventory.GET("/reports/monthly", r.inventoryController.GetMonthlySummary)
			inventory.GET("/reports/distribution", r.inventoryController.GetStockDistribution)
			inventory.GET("/reports/popular", r.inventoryController.GetPopularProducts)
		}

		useCases := api.Group("/usecases")
		{
			useCases.GET("", r.useCaseController.ListUseCases)
			useCases.GET("/:id", r.useCaseController.GetUseCaseByID)

			useCases.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.useCaseController.CreateUseCase,
			)
			useCases.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.useCaseController.UpdateUseCase,
			)
			useCases.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.useCaseController.DeleteUseCase,
			)
		}

		uploads := api.Group("/uploads",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			uploads.POST("/presign", r.uploadController.GeneratePresignedURL)
		}

		wsGroup := api.Group("/ws",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			wsGroup.GET("/alerts", r.wsController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
