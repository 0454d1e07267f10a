package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/saivarshithnaidu/car-spare/config"
	"github.com/saivarshithnaidu/car-spare/internal/billing"
	"github.com/saivarshithnaidu/car-spare/internal/handler"
	"github.com/saivarshithnaidu/car-spare/internal/inventory"
	"github.com/saivarshithnaidu/car-spare/internal/invoice"
	"github.com/saivarshithnaidu/car-spare/internal/khatabook"
	"github.com/saivarshithnaidu/car-spare/internal/middleware"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/internal/payment"
	"github.com/saivarshithnaidu/car-spare/pkg/database"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations...")
	err := database.DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LoginHistory{},
		&models.SparePart{},
		&models.StockEntry{},
		&models.Order{},
		&models.OrderItem{},
		&models.KhatabookEntry{},
		&models.PaymentIntent{},
		&models.Ad{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	database.SeedRolesAndAdmin()

	cfg := config.AppConfig
	ledger := inventory.NewLedger(database.DB)
	credit := khatabook.NewService(database.DB, cfg.Billing.CreditDueDays)
	gateway := payment.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL)
	store := &invoice.DiskStore{Dir: cfg.Invoice.Dir, BaseURL: cfg.Invoice.BaseURL}
	settler := billing.NewSettler(
		database.DB, ledger, credit, gateway, store,
		decimal.NewFromFloat(cfg.Billing.GSTRate), cfg.Defaults.CompanyName,
	)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Generated invoices are served straight off disk.
	r.Static(cfg.Invoice.BaseURL, cfg.Invoice.Dir)

	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	userRoutes := r.Group("/api/v1/user")
	userRoutes.Use(middleware.AuthMiddleware())
	{
		userRoutes.PUT("/password", authHandler.ChangePassword)
	}

	billingHandler := &handler.BillingHandler{Settler: settler}
	billingRoutes := r.Group("/api/v1/billing")
	billingRoutes.Use(middleware.AuthMiddleware("biller", "manager", "admin"))
	{
		billingRoutes.POST("/payment-intents", billingHandler.CreatePaymentIntent)
		billingRoutes.POST("/payments/verify", billingHandler.VerifyPayment)
		billingRoutes.POST("/settlements", billingHandler.CreateSettlement)
		billingRoutes.GET("/customers", billingHandler.SearchCustomers)
	}

	khatabookHandler := &handler.KhatabookHandler{Service: credit}
	khatabookRoutes := r.Group("/api/v1/khatabook")
	khatabookRoutes.Use(middleware.AuthMiddleware("biller", "manager", "admin"))
	{
		khatabookRoutes.GET("", khatabookHandler.List)
		khatabookRoutes.PUT("/:id", khatabookHandler.Update)
		khatabookRoutes.PUT("/:id/mark-paid", khatabookHandler.MarkPaid)
	}

	orderHandler := &handler.OrderHandler{Settler: settler}
	orderRoutes := r.Group("/api/v1/orders")
	orderRoutes.Use(middleware.AuthMiddleware("biller", "manager", "admin"))
	{
		orderRoutes.GET("", orderHandler.ListOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.POST("/:id/invoice", orderHandler.RegenerateInvoice)
		orderRoutes.GET("/reports/sales", orderHandler.SalesReport)
	}

	inventoryHandler := &handler.InventoryHandler{Ledger: ledger}
	r.GET("/api/v1/inventory/parts", middleware.AuthMiddleware(), inventoryHandler.ListParts)
	invRoutes := r.Group("/api/v1/inventory")
	invRoutes.Use(middleware.AuthMiddleware("admin", "manager", "inventory"))
	{
		invRoutes.POST("/parts", inventoryHandler.CreatePart)
		invRoutes.PUT("/parts/:id", inventoryHandler.UpdatePart)
		invRoutes.POST("/stock", inventoryHandler.AddStock)
		invRoutes.GET("/alerts", inventoryHandler.GetLowStockAlerts)
	}

	adminHandler := &handler.AdminHandler{}
	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		adminRoutes.GET("/dashboard", adminHandler.GetDashboardStats)
		adminRoutes.GET("/customers", adminHandler.ListCustomers)
		adminRoutes.GET("/customers/:id", adminHandler.GetCustomer)
		adminRoutes.GET("/ads", adminHandler.ListAds)
		adminRoutes.POST("/ads", adminHandler.CreateAd)
		adminRoutes.PUT("/ads/:id", adminHandler.UpdateAd)
		adminRoutes.DELETE("/ads/:id", adminHandler.DeleteAd)
	}

	publicHandler := &handler.PublicHandler{}
	publicRoutes := r.Group("/api/v1/public")
	{
		publicRoutes.GET("/parts", publicHandler.ListParts)
		publicRoutes.GET("/ads", publicHandler.ListActiveAds)
		publicRoutes.GET("/site-info", publicHandler.GetSiteInfo)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
