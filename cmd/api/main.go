package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rummy-gateway-backend/internal/config"
	"rummy-gateway-backend/internal/handlers"
	"rummy-gateway-backend/internal/middleware"
	"rummy-gateway-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger := logrus.StandardLogger()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	redisService := services.NewRedisService(cfg, logger)
	// Everything downstream depends on the store: exhausting the retry
	// budget here terminates the process rather than running degraded.
	if err := redisService.Initialize(context.Background()); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	journal := services.NewFailureJournal(cfg.FailedLogPath, logger)
	webhookService := services.NewWebhookService(cfg, journal, logger)
	identityClient := services.NewIdentityClient(cfg, logger)
	jwtService := services.NewJWTService(cfg)

	wsHandler := handlers.NewWebSocketHandler(redisService, identityClient, webhookService, logger)
	adminHandler := handlers.NewAdminHandler(redisService, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.GET("/health", adminHandler.Health)
	router.GET("/ws", wsHandler.HandleWebSocket)

	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(jwtService))
	{
		admin.POST("/cache/flush", adminHandler.FlushStore)
	}

	logrus.Infof("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
