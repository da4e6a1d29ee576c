package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/handlers"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/middleware"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, levels *loyalty.Table) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	kakaoService := services.NewKakaoService(
		cfg.KakaoClientID,
		cfg.KakaoClientSecret,
		cfg.KakaoRedirectURI,
		cfg.KakaoAuthBaseURL,
		cfg.KakaoAPIBaseURL,
	)
	historyService := services.NewHistoryService(db, levels)

	authHandler := handlers.NewAuthHandler(db, cfg, kakaoService)
	productHandler := handlers.NewProductHandler(db)
	posHandler := handlers.NewPosHandler(db, levels, historyService, telegramService)
	receiptHandler := handlers.NewReceiptHandler(db, historyService)
	myPageHandler := handlers.NewMyPageHandler(db, historyService)
	adminHandler := handlers.NewAdminHandler(db, levels, historyService)

	adminOnly := middleware.AuthMiddleware(cfg, utils.RoleAdmin)
	customerOnly := middleware.AuthMiddleware(cfg, utils.RoleCustomer)
	anyRole := middleware.AuthMiddleware(cfg, utils.RoleAdmin, utils.RoleCustomer)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Get("/kakao/login", authHandler.KakaoLogin)
	auth.Get("/kakao/callback", authHandler.KakaoCallback)
	// Registered ahead of the guarded admin group.
	api.Post("/admin/login", authHandler.AdminLogin)

	// Catalog
	api.Get("/categories", productHandler.ListCategories)
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", adminOnly, productHandler.CreateProduct)
	products.Put("/:id", adminOnly, productHandler.UpdateProduct)
	products.Delete("/:id", adminOnly, productHandler.DeleteProduct)

	// Point of sale
	pos := api.Group("/pos", adminOnly)
	pos.Get("/customers", posHandler.FindCustomer)
	pos.Post("/customers", posHandler.RegisterCustomer)
	pos.Post("/checkout", posHandler.Checkout)

	api.Get("/receipts/:id", anyRole, receiptHandler.GetReceipt)

	// My page
	me := api.Group("/me", customerOnly)
	me.Get("/", myPageHandler.GetMe)
	me.Put("/", myPageHandler.UpdateMe)
	me.Get("/stats", myPageHandler.GetStats)
	me.Get("/purchases", myPageHandler.ListPurchases)
	me.Get("/progress", myPageHandler.GetProgress)

	// Admin dashboard
	admin := api.Group("/admin", adminOnly)
	admin.Get("/dashboard", adminHandler.DashboardStats)
	admin.Get("/sales/daily", adminHandler.DailySales)
	admin.Get("/products/top", adminHandler.TopProducts)
	admin.Get("/customers", adminHandler.ListCustomers)
	admin.Get("/customers/:id/stats", adminHandler.CustomerStats)
	admin.Get("/levels", adminHandler.ListLevels)
}
