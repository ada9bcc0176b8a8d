package main

import (
	"os"

	"ops-portal-backend/internal/api/routes"
	"ops-portal-backend/internal/config"
	"ops-portal-backend/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Ops Portal Backend API
// @version 1.0
// @description Operations dashboard backend: team rosters, request lifecycle and notifications
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token
func main() {
	// Load .env file if present; real deployments use environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	db, err := database.Initialize(cfg.DatabaseURL, &database.Options{
		AutoMigrate: true,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := routes.SetupRoutes(db, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up routes")
	}

	logrus.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
	}).Info("Starting server")

	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Server terminated")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
