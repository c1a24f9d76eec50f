// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phelcone/phelcone-backend/internal/config"
	"github.com/phelcone/phelcone-backend/internal/handlers"
	"github.com/phelcone/phelcone-backend/internal/inventory"
	"github.com/phelcone/phelcone-backend/internal/metrics"
	"github.com/phelcone/phelcone-backend/internal/middleware"
	"github.com/phelcone/phelcone-backend/internal/services"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	ledger := inventory.NewSQLLedger(db)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	gadgetService := services.NewGadgetService(db)
	transactionService := services.NewTransactionService(db)
	adminService := services.NewAdminService(db)
	checkoutService := services.NewCheckoutService(userService, transactionService, ledger, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	gadgetHandler := handlers.NewGadgetHandler(gadgetService, storageService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	adminHandler := handlers.NewAdminHandler(adminService, userService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	serverMetrics := metrics.NewServerMetrics()
	limits := middleware.NewRateLimits(cfg.RateLimit)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())
	r.Use(limits.General())
	r.Use(serverMetrics.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.Auth())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/admin-login", authHandler.AdminLogin)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Catalog routes
		gadgets := v1.Group("/gadgets")
		{
			gadgets.GET("", middleware.OptionalAuth(), gadgetHandler.List)
			gadgets.GET("/:id", middleware.OptionalAuth(), gadgetHandler.Get)

			protected := gadgets.Group("")
			protected.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				protected.POST("", gadgetHandler.Create)
				protected.PUT("/:id", gadgetHandler.Update)
				protected.DELETE("/:id", gadgetHandler.Delete)
				protected.POST("/:id/images", limits.Upload(), gadgetHandler.UploadImage)
			}
		}

		// Checkout
		checkout := v1.Group("/checkout")
		checkout.Use(middleware.AuthRequired())
		{
			checkout.POST("", checkoutHandler.Checkout)
		}

		// Transactions
		transactions := v1.Group("/transactions")
		transactions.Use(middleware.AuthRequired())
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.POST("", middleware.AdminRequired(), transactionHandler.UpdateStatus)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("", middleware.AdminRequired(), adminHandler.ListUsers)
			users.GET("/:id/details", userHandler.GetDetails)
			users.PUT("/:id/details", userHandler.UpdateDetails)
			users.PUT("/:id/wishlist", userHandler.UpdateWishlist)
			users.POST("/:id/avatar", limits.Upload(), userHandler.UploadAvatar)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
