// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pujaya/auction-backend/internal/config"
	"github.com/pujaya/auction-backend/internal/handlers"
	"github.com/pujaya/auction-backend/internal/middleware"
	"github.com/pujaya/auction-backend/internal/repository"
	"github.com/pujaya/auction-backend/internal/services"
	"github.com/pujaya/auction-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize repositories
	auctionRepo := repository.NewAuctionRepository(db)
	bidRepo := repository.NewBidRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(userRepo, notificationService, cfg)
	auctionService := services.NewAuctionService(auctionRepo, productRepo, userRepo, notificationService)
	bidService := services.NewBidService(auctionRepo, bidRepo, userRepo, notificationService)
	productService := services.NewProductService(productRepo, categoryRepo, storageService)
	schedulerService := services.NewSchedulerService(auctionRepo, productRepo, notificationService)
	paymentService := services.NewPaymentService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	auctionHandler := handlers.NewAuctionHandler(auctionService)
	bidHandler := handlers.NewBidHandler(bidService)
	productHandler := handlers.NewProductHandler(productService)
	adminHandler := handlers.NewAdminHandler(auctionService, schedulerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Auction routes
		auctions := v1.Group("/auctions")
		{
			auctions.GET("", middleware.OptionalAuth(), auctionHandler.Search)
			auctions.GET("/:id", middleware.OptionalAuth(), auctionHandler.Get)
			auctions.GET("/user/:userId", auctionHandler.ListByUser)
			auctions.GET("/:id/bids", bidHandler.ListByAuction)

			// Authenticated routes
			protected := auctions.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", auctionHandler.Create)
				protected.PATCH("/:id", auctionHandler.Update)
				protected.DELETE("/:id", auctionHandler.Remove)
				protected.POST("/:id/end", auctionHandler.End)
				protected.POST("/:id/product/:productId", auctionHandler.AddProduct)
				protected.POST("/:id/bids", middleware.BidRateLimit(), bidHandler.Place)
			}
		}

		// Bid routes
		bids := v1.Group("/bids")
		bids.Use(middleware.AuthRequired())
		{
			bids.GET("/me", bidHandler.ListMine)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.Create)
				protected.PATCH("/:id", productHandler.Update)
				protected.DELETE("/:id", productHandler.Remove)
				protected.POST("/upload", middleware.UploadRateLimit(), productHandler.UploadImage)
			}
		}

		// Category routes
		v1.GET("/categories", productHandler.ListCategories)

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreateIntent)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.DELETE("/auctions/:id", adminHandler.ToggleAuction)
			admin.POST("/sweeps/expiry", adminHandler.RunExpirySweep)
			admin.POST("/sweeps/purge", adminHandler.RunPurgeSweep)
		}
	}

	return r
}

// NewSchedulerService builds the sweep service used by the cron runner in
// cmd/server. The router wires its own instance for the admin endpoints.
func NewSchedulerService(db *gorm.DB, cfg *config.Config) *services.SchedulerService {
	return services.NewSchedulerService(
		repository.NewAuctionRepository(db),
		repository.NewProductRepository(db),
		services.NewNotificationService(cfg),
	)
}
