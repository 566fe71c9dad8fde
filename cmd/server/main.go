package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/router"
	"github.com/nabilhq/openwall/backend/pkg/config"
	"github.com/nabilhq/openwall/backend/pkg/firebase"
	"github.com/nabilhq/openwall/backend/validators"
)

func main() {
	// Load configuration
	config.LoadDotenv()
	cfg := config.Load()

	logger := logging.Default.WithField("service", "openwall")

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db, firebaseApp.AuthClient, logger)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
