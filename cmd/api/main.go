package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"sinfoni-api/internal/config"
	"sinfoni-api/internal/handler"
	"sinfoni-api/internal/middleware"
	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"
	"sinfoni-api/internal/service"
	"sinfoni-api/internal/ws"
	"sinfoni-api/pkg/database"
	"sinfoni-api/pkg/jwt"
	"sinfoni-api/pkg/mailer"
	"sinfoni-api/pkg/slug"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg)
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.User{},
		&model.Dealer{},
		&model.Barang{},
		&model.BarangPrice{},
		&model.TrxHeader{},
		&model.TrxItem{},
		&model.TrxStatusLog{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Shared infrastructure
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	codec := slug.NewCodec(cfg.EncryptionKey)
	mail := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailName)

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	dealerRepo := repository.NewDealerRepo(db)
	barangRepo := repository.NewBarangRepo(db)
	priceRepo := repository.NewPriceRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	authService := service.NewAuthService(userRepo, tokens, mail, cfg.AppURL)
	userService := service.NewUserService(userRepo)
	masterService := service.NewMasterService(barangRepo, priceRepo, dealerRepo)
	txService := service.NewTransactionService(db, txRepo, userRepo, codec, mail, wsHub, cfg.FinanceEmail)
	dashService := service.NewDashboardService(txRepo, userRepo, codec)
	reportService := service.NewReportService(txRepo)

	authHandler := handler.NewAuthHandler(authService, tokens)
	userHandler := handler.NewUserHandler(userService)
	masterHandler := handler.NewMasterHandler(masterService)
	txHandler := handler.NewTransactionHandler(txService, codec)
	dashHandler := handler.NewDashboardHandler(dashService)
	reportHandler := handler.NewReportHandler(reportService, codec)
	uploadHandler := handler.NewUploadHandler(cfg.UploadDir)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "SINFONI API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(middleware.SessionGuard(tokens))

	// Static receipts
	app.Static("/uploads/receipts", cfg.UploadDir)

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// ============ PROTECTED ROUTES ============
	// SessionGuard already rejected unauthenticated calls for everything
	// outside its public list; RequireRole adds the per-route gate.
	api.Get("/auth/me", authHandler.Me)

	api.Get("/profile", userHandler.GetProfile)
	api.Put("/profile", userHandler.UpdateProfile)

	api.Get("/dashboard", dashHandler.Overview)

	// Master data
	master := api.Group("/master")
	master.Get("/barang", masterHandler.GetBarang)
	master.Post("/barang", middleware.RequireRole(model.RoleSuperadmin), masterHandler.CreateBarang)
	master.Get("/dealers", masterHandler.GetDealers)
	master.Post("/dealers", middleware.RequireRole(model.RoleSuperadmin), masterHandler.CreateDealer)
	master.Get("/prices", masterHandler.GetPrices)
	master.Post("/prices", middleware.RequireRole(model.RoleSuperadmin), masterHandler.CreatePrice)

	// Transactions
	api.Get("/transactions", txHandler.List)
	api.Post("/transactions", middleware.RequireRole(model.RoleDealer, model.RoleSuperadmin), txHandler.Create)
	api.Get("/transactions/:slug", txHandler.Get)
	api.Put("/transactions/:slug/status", middleware.RequireRole(model.RoleFinance, model.RoleSuperadmin), txHandler.UpdateStatus)

	// Reports
	api.Get("/reports/transactions/export", middleware.RequireRole(model.RoleFinance, model.RoleSuperadmin), reportHandler.Export)
	api.Get("/reports/transactions/:slug/print", reportHandler.Print)

	// Uploads + OCR suggestions
	api.Post("/upload/receipt", uploadHandler.Receipt)
	api.Post("/ocr/suggestions", masterHandler.SuggestItems)

	// Administration (SessionGuard already restricts /api/v1/admin to Superadmin)
	admin := api.Group("/admin")
	admin.Get("/users", userHandler.GetUsers)
	admin.Post("/users", userHandler.CreateUser)
	admin.Put("/users/:id", userHandler.UpdateUser)
	admin.Delete("/users/:id", userHandler.DeleteUser)
	admin.Get("/users/mapping", userHandler.GetMapping)
	admin.Post("/users/mapping", userHandler.UpdateMapping)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
