package main

import (
	"log"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handler"
	"fintrack/internal/middleware"
	"fintrack/internal/notify"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Fintrack API
// @version         1.0
// @description     Personal finance backend: invoices with derived totals, income ledger, shared group expenses, savings goals and scheduled reminders.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	reportRepo := repository.NewReportRepository(db)

	mailSender := notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	userService := service.NewUserService(userRepo, cfg.JWTSecret)
	invoiceService := service.NewInvoiceService(invoiceRepo, incomeRepo, txManager)
	groupService := service.NewGroupService(groupRepo, userRepo)
	expenseService := service.NewExpenseService(expenseRepo, groupRepo)
	goalService := service.NewGoalService(goalRepo, groupRepo, userRepo)
	reportService := service.NewReportService(db, invoiceRepo, reportRepo)
	reminderService := service.NewReminderService(reminderRepo, userRepo, mailSender, wsHub)

	// Reminder dispatcher: sweep for due reminders every minute
	scheduler := cron.New()
	if err := reminderService.StartDispatcher(scheduler); err != nil {
		log.Fatalf("Failed to register reminder dispatcher: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, cfg.JWTSecret, cfg.SecureCookies)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	groupHandler := handler.NewGroupHandler(groupService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	goalHandler := handler.NewGoalHandler(goalService)
	reportHandler := handler.NewReportHandler(reportService)
	notificationHandler := handler.NewNotificationHandler(reminderService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, cfg.JWTSecret)
	})

	// Register API Routes
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.RequireAuth(cfg.JWTSecret))
	invoiceHandler.RegisterRoutes(protected)
	groupHandler.RegisterRoutes(protected)
	expenseHandler.RegisterRoutes(protected)
	goalHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected)

	log.Println("Starting server on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
