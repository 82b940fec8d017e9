// Package main is the entry point for the LMS API.
package main

import (
	"context"
	"fmt"

	_ "github.com/campus-labs/lms-api/docs"
	"github.com/campus-labs/lms-api/internal/config"
	"github.com/campus-labs/lms-api/internal/database"
	"github.com/campus-labs/lms-api/internal/handlers"
	"github.com/campus-labs/lms-api/internal/limiter"
	"github.com/campus-labs/lms-api/internal/middleware"
	"github.com/campus-labs/lms-api/internal/policy"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/campus-labs/lms-api/internal/routes"
	"github.com/campus-labs/lms-api/internal/service"
	"github.com/campus-labs/lms-api/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title LMS API
// @version 1.0
// @description Learning Management System backend with JWT authentication and role-scoped access
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// Load configuration; missing required settings panic here, before
	// any traffic is served.
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize Redis
	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Role bootstrap runs before serving traffic.
	if err := userRepo.EnsureRoles(ctx); err != nil {
		logger.Fatal("failed to bootstrap roles", zap.Error(err))
	}

	// Initialize services
	tokenService := service.NewTokenService(userRepo, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessExpiry)
	authService := service.NewAuthService(userRepo, tokenService)
	policyService := policy.NewService(userRepo)
	loginLimiter := limiter.NewRedisLimiter(redisClient, cfg.LoginMaxFailures, cfg.LoginWindow)

	// Initialize handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, loginLimiter, logger),
		Courses:    handlers.NewCoursesHandler(courseRepo, policyService, logger),
		Modules:    handlers.NewModulesHandler(moduleRepo, policyService, logger),
		Activities: handlers.NewActivitiesHandler(activityRepo, policyService, logger),
		Users:      handlers.NewUsersHandler(userRepo, logger),
		Health:     handlers.NewHealthHandler(),
	}

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	routes.Setup(router, cfg, tokenService, h)

	// Start server
	logger.Info("starting LMS API", zap.String("port", cfg.Port))
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
