package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stavg2005/SoloLevelingApp/handlers"
	"github.com/stavg2005/SoloLevelingApp/models"
	"github.com/stavg2005/SoloLevelingApp/services"
	"github.com/stavg2005/SoloLevelingApp/utils"
	"github.com/stavg2005/SoloLevelingApp/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, avatars are the only upload
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
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
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserSettings{},
		&models.HunterRank{},
		&models.HunterStatus{},
		&models.Stat{},
		&models.UserStat{},
		&models.DungeonCategory{},
		&models.Dungeon{},
		&models.Exercise{},
		&models.DungeonExercise{},
		&models.UserDungeonCompletion{},
		&models.QuestCategory{},
		&models.Quest{},
		&models.QuestObjective{},
		&models.UserQuest{},
		&models.UserQuestObjective{},
		&models.ActivityLog{},
		&models.TitleType{},
		&models.UserTitle{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	userService := services.NewUserService(db)
	progressionService := services.NewProgressionService(db)
	titleService := services.NewTitleService(db)
	dungeonService := services.NewDungeonService(db, progressionService, titleService)
	questService := services.NewQuestService(db, progressionService, titleService)

	if err := userService.EnsureCoreData(); err != nil {
		log.Fatal("failed to seed core data:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expiryClient := workers.NewQuestExpiryClient(db)
	go workers.PollExpiredQuests(ctx, expiryClient, 5*time.Minute)

	services.StartAvailabilityScheduler(db)

	handlers.SetupUserRoutes(app, userService)
	handlers.SetupStatusRoutes(app, userService, progressionService, titleService)
	handlers.SetupDungeonRoutes(app, dungeonService)
	handlers.SetupQuestRoutes(app, questService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server running on http://localhost:%s", port)
	log.Println("Quest expiry polling running (every 5m)")
	log.Printf("CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
