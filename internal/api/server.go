package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ecofinds/internal/api/handlers"
	"ecofinds/internal/api/middleware"
	"ecofinds/internal/auth"
	"ecofinds/internal/cart"
	"ecofinds/internal/catalog"
	"ecofinds/internal/checkout"
	"ecofinds/internal/config"
	"ecofinds/internal/logger"
	"ecofinds/internal/notifications"
	"ecofinds/internal/payment"
	"ecofinds/internal/products"
	"ecofinds/internal/purchases"

	"github.com/gin-gonic/gin"
)

// Services are the domain services the HTTP layer exposes.
type Services struct {
	Auth          *auth.Service
	Products      *products.Service
	Catalog       *catalog.Engine
	Cart          *cart.Service
	Checkout      *checkout.Manager
	Purchases     *purchases.Service
	Notifications *notifications.Service
	Payments      payment.Processor
	DemoPayments  *payment.Simulated
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, svc Services) *Server {
	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth, logger)
	productHandler := handlers.NewProductHandler(svc.Products, svc.Auth, logger)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, logger)
	cartHandler := handlers.NewCartHandler(svc.Cart, logger)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, logger)
	purchaseHandler := handlers.NewPurchaseHandler(svc.Purchases, svc.Products, logger)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments, svc.DemoPayments, logger)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications, logger)

	requireAuth := auth.RequireAuth(svc.Auth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.SignUp)
			authRoutes.POST("/signin", authHandler.SignIn)
			authRoutes.POST("/signout", requireAuth, authHandler.SignOut)
		}

		me := v1.Group("/me", requireAuth)
		{
			me.GET("", authHandler.Profile)
			me.PUT("", authHandler.UpdateProfile)
			me.GET("/dashboard", purchaseHandler.Dashboard)
			me.GET("/listings", productHandler.MyListings)
			me.GET("/listings/export", productHandler.Export)
		}

		v1.GET("/categories", productHandler.Categories)

		// Catalog
		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.GET("", catalogHandler.Browse)
			catalogRoutes.GET("/search", catalogHandler.Search)
			catalogRoutes.GET("/suggestions", catalogHandler.Suggestions)
		}

		// Products
		productRoutes := v1.Group("/products")
		{
			productRoutes.GET("", productHandler.List)
			productRoutes.GET("/:id", productHandler.Get)
			productRoutes.POST("", requireAuth, productHandler.Create)
			productRoutes.PUT("/:id", requireAuth, productHandler.Update)
			productRoutes.PATCH("/:id/status", requireAuth, productHandler.UpdateStatus)
			productRoutes.DELETE("/:id", requireAuth, productHandler.Delete)
		}

		// Cart
		cartRoutes := v1.Group("/cart", requireAuth)
		{
			cartRoutes.GET("", cartHandler.Get)
			cartRoutes.DELETE("", cartHandler.Clear)
			cartRoutes.POST("/items", cartHandler.AddItem)
			cartRoutes.PUT("/items/:itemId", cartHandler.UpdateQuantity)
			cartRoutes.DELETE("/items/:itemId", cartHandler.RemoveItem)
		}

		// Checkout
		checkoutRoutes := v1.Group("/checkout", requireAuth)
		{
			checkoutRoutes.GET("/methods", checkoutHandler.Methods)
			checkoutRoutes.POST("", checkoutHandler.Begin)
			checkoutRoutes.GET("", checkoutHandler.Get)
			checkoutRoutes.DELETE("", checkoutHandler.Cancel)
			checkoutRoutes.POST("/method", checkoutHandler.SelectMethod)
			checkoutRoutes.POST("/details", checkoutHandler.EnterDetails)
			checkoutRoutes.POST("/submit", checkoutHandler.Submit)
		}

		// Purchases
		purchaseRoutes := v1.Group("/purchases", requireAuth)
		{
			purchaseRoutes.GET("", purchaseHandler.List)
			purchaseRoutes.GET("/stats", purchaseHandler.Stats)
			purchaseRoutes.GET("/:id", purchaseHandler.Get)
		}

		// Payments
		paymentRoutes := v1.Group("/payments")
		{
			paymentRoutes.POST("/intent", paymentHandler.CreateIntent)
			paymentRoutes.POST("/demo", paymentHandler.Demo)
		}

		// Notifications
		notificationRoutes := v1.Group("/notifications", requireAuth)
		{
			notificationRoutes.GET("", notificationHandler.List)
			notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
			notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
			notificationRoutes.DELETE("/:id", notificationHandler.Delete)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for the serverless adapter and tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
