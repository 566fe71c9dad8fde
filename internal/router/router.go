package router

import (
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/nabilhq/openwall/backend/internal/cache"
	"github.com/nabilhq/openwall/backend/internal/chat"
	"github.com/nabilhq/openwall/backend/internal/handlers"
	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/middleware"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
	"github.com/nabilhq/openwall/backend/internal/services"
	"github.com/nabilhq/openwall/backend/pkg/config"
)

const friendCacheTTL = 60 * time.Second

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseAuthClient *auth.Client, logger *logging.Logger) {
	// AutoMigrate PostgreSQL models
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Friend{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	handlers.RegisterHealthRoutes(e)

	// --- Initialize Repositories ---
	repos := repositories.NewPostgresRepositories(db.Postgres)
	txManager := repositories.NewGormTxManager(db.Postgres)
	messageRepo := repositories.NewMongoMessageRepository(db.Mongo, db.Mongo.Database("openwall"))

	// --- Friend cache ---
	var friendCache cache.FriendSet = cache.NewNoopFriendSet()
	if db.Redis != nil {
		friendCache = cache.NewRedisFriendSet(db.Redis, friendCacheTTL)
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(repos.Users, cfg.JWTSecret, logger)
	socialService := services.NewSocialService(repos, txManager, friendCache, logger)
	feedService := services.NewFeedService(repos, socialService, cfg.FeedPageSize, cfg.FeedOverfetch, logger)
	engagementService := services.NewEngagementService(repos, txManager, logger)

	hub := chat.NewHub(cfg.ChatBroadcast, logger)
	chatService := chat.NewService(messageRepo, hub, logger)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, repos.Users, firebaseAuthClient)
	userHandler := handlers.NewUserHandler(repos.Users, socialService, engagementService)
	postHandler := handlers.NewPostHandler(feedService, engagementService)
	chatHandler := handlers.NewChatHandler(chatService, hub, logger)

	// Public routes
	authHandler.RegisterAuthRoutes(e)
	chatHandler.RegisterRealtimeRoutes(e)

	// Authenticated routes
	api := e.Group("", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userHandler.RegisterUserRoutes(api)
	postHandler.RegisterPostRoutes(api)
	chatHandler.RegisterChatRoutes(api)
}
