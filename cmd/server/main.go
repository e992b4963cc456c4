package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"

	"github.com/labstack/echo/v4"
	"github.com/learnloop/backend/internal/router"
	"github.com/learnloop/backend/internal/validators"
	"github.com/learnloop/backend/pkg/config"
	"github.com/learnloop/backend/pkg/firebase"
	"github.com/learnloop/backend/pkg/logger"
	"github.com/learnloop/backend/pkg/metrics"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Firebase token verification is optional; the JWT middleware carries
	// auth when no credentials file is configured.
	var authClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, db.Redis, authClient, zlog)

	// Validator
	e.Validator = validators.NewValidator()

	// Metrics endpoint on its own port
	go func() {
		if err := metrics.Serve(cfg.MetricsPort); err != nil {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
