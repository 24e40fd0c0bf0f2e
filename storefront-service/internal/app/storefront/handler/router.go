package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopit/pkg/logger"
	"shopit/pkg/metrics"
)

const serviceName = "storefront-service"

// Handlers - набор обработчиков storefront API
type Handlers struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Product *ProductHandler
	Order   *OrderHandler
	Payment *PaymentHandler
}

// SetupRoutes настраивает все маршруты /api/v1
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, frontendURL string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// Cookie сессии требует конкретный origin вместе с AllowCredentials
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Публичные эндпоинты
	{
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)
		api.GET("/logout", h.Auth.Logout)
		api.POST("/password/forgot", h.Auth.ForgotPassword)
		api.PUT("/password/reset/:token", h.Auth.ResetPassword)

		api.GET("/products", h.Product.GetProducts)
		api.GET("/product/:id", h.Product.GetProduct)
	}

	// Любой авторизованный пользователь
	user := api.Group("")
	user.Use(authMiddleware.Authenticate())
	{
		user.GET("/me", h.Auth.GetProfile)
		user.PUT("/me/update", h.Auth.UpdateProfile)
		user.PUT("/password/update", h.Auth.UpdatePassword)

		user.PUT("/review", h.Product.UpsertReview)
		user.GET("/reviews", h.Product.GetReviews)
		user.DELETE("/reviews", h.Product.DeleteReview)

		user.POST("/order/new", h.Order.CreateOrder)
		user.GET("/order/:id", h.Order.GetOrder)
		user.GET("/orders/me", h.Order.MyOrders)

		user.POST("/payment/process", h.Payment.ProcessPayment)
		user.GET("/stripeapi", h.Payment.StripeAPIKey)
	}

	// Только администраторы
	admin := api.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireRole("admin"))
	{
		admin.GET("/users", h.Users.ListUsers)
		admin.GET("/user/:id", h.Users.GetUser)
		admin.PUT("/user/:id", h.Users.UpdateUser)
		admin.DELETE("/user/:id", h.Users.DeleteUser)

		admin.GET("/products", h.Product.GetAdminProducts)
		admin.POST("/product/new", h.Product.CreateProduct)
		admin.PUT("/product/:id", h.Product.UpdateProduct)
		admin.DELETE("/product/:id", h.Product.DeleteProduct)

		admin.GET("/orders", h.Order.AllOrders)
		admin.PUT("/order/:id", h.Order.UpdateOrderStatus)
		admin.DELETE("/order/:id", h.Order.DeleteOrder)
	}

	return router
}
