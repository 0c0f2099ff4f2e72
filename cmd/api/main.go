package main

import (
	"context"
	"log"
	"os"

	_ "canebill/api/swagger" // swagger docs
	"canebill/internal/database"
	"canebill/internal/handler"
	"canebill/internal/middleware"
	"canebill/internal/repository"
	"canebill/internal/service"
	"canebill/internal/storage"
	"canebill/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Sugarcane Billing API
// @version         1.0
// @description     Billing and ledger API for a sugarcane mill: farmer and seller registries, weight-based bills, PDF receipts.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "canebill"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	jwtSecret := middleware.GetJWTSecret()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Object storage is optional; bill sharing and uploads fail with a clear
	// error when it is not configured
	var uploader storage.Uploader
	if endpoint := os.Getenv("STORAGE_ENDPOINT"); endpoint != "" {
		store, err := storage.NewObjectStore(context.Background(), storage.Config{
			Endpoint:      endpoint,
			AccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:        os.Getenv("STORAGE_BUCKET"),
			Region:        os.Getenv("STORAGE_REGION"),
			PublicBaseURL: os.Getenv("STORAGE_PUBLIC_URL"),
		})
		if err != nil {
			log.Fatalf("Object storage setup failed: %v", err)
		}
		uploader = store
	} else {
		log.Println("STORAGE_ENDPOINT not set, object storage disabled")
	}

	// Set up dependencies (Repository -> Service -> Handler)
	partyRepo := repository.NewPartyRepository(db)
	billRepo := repository.NewBillRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	partyService := service.NewPartyService(partyRepo, billRepo, auditRepo, txManager)
	billService := service.NewBillService(billRepo, partyRepo, auditRepo, wsHub)
	authService := service.NewAuthService(adminRepo, jwtSecret)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(db)
	exportService := service.NewExportService(billRepo, auditRepo, uploader)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	partyHandler := handler.NewPartyHandler(partyService)
	billHandler := handler.NewBillHandler(billService, exportService)
	uploadHandler := handler.NewUploadHandler(uploader)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	requireAdmin := middleware.RequireAdmin(jwtSecret)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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
		websocket.ServeWs(wsHub, c, jwtSecret)
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	partyHandler.RegisterRoutes(router.Group(""), requireAdmin)
	billHandler.RegisterRoutes(router.Group(""), requireAdmin)
	uploadHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""), requireAdmin)
	statisticsHandler.RegisterRoutes(router.Group(""), requireAdmin)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
