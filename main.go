package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"neon-store-backend/handlers"
	"neon-store-backend/models"
	"neon-store-backend/services"
	"neon-store-backend/utils"
	"neon-store-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 5 * 1024 * 1024 * 1024, // 5GB — admin binary uploads
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	artifactStore, err := utils.NewArtifactStore()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Game{},
		&models.GameScreenshot{},
		&models.GameTag{},
		&models.Edition{},
		&models.DLC{},
		&models.Purchase{},
		&models.DemoClaim{},
		&models.GameDownload{},
		&models.Announcement{},
		&models.Profile{},
		&models.UserRole{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	authBaseURL := os.Getenv("AUTH_BASE_URL")
	if authBaseURL == "" {
		log.Fatal("AUTH_BASE_URL environment variable not set")
	}
	authAnonKey := os.Getenv("AUTH_ANON_KEY")
	if authAnonKey == "" {
		log.Fatal("AUTH_ANON_KEY environment variable not set")
	}
	authServiceKey := os.Getenv("AUTH_SERVICE_ROLE_KEY")
	if authServiceKey == "" {
		log.Fatal("AUTH_SERVICE_ROLE_KEY environment variable not set")
	}

	authClient := services.NewAuthClient(authBaseURL, authAnonKey)
	entitlementStore := services.NewEntitlementStore(db)

	downloadService := services.NewDownloadService(authClient, entitlementStore, artifactStore)
	catalogService := services.NewCatalogService(db, artifactStore)
	purchaseService := services.NewPurchaseService(db)
	announcementService := services.NewAnnouncementService(db, artifactStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profileSyncWorker := workers.NewProfileSyncWorker(db, authBaseURL, authServiceKey)
	profileSyncWorker.Start(ctx)

	purchaseService.StartPreorderReleaseScheduler()

	handlers.SetupDownloadRoutes(app, downloadService)
	handlers.SetupCatalogRoutes(app, catalogService, authClient, db)
	handlers.SetupPurchaseRoutes(app, purchaseService, authClient)
	handlers.SetupAnnouncementRoutes(app, announcementService, authClient, db)

	go func() {
		if err := app.Listen(":5200"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5200")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Preorder release scheduler running (every 1m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
