// Package routes defines HTTP routes for the LMS API.
package routes

import (
	"github.com/campus-labs/lms-api/docs"
	"github.com/campus-labs/lms-api/internal/config"
	"github.com/campus-labs/lms-api/internal/handlers"
	"github.com/campus-labs/lms-api/internal/middleware"
	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Courses    *handlers.CoursesHandler
	Modules    *handlers.ModulesHandler
	Activities *handlers.ActivitiesHandler
	Users      *handlers.UsersHandler
	Health     *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, cfg *config.Config, tokens service.TokenService, h Handlers) {
	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Open endpoints: registration and login need no token.
	auth := api.Group("/authentication")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	authenticated := api.Group("")
	authenticated.Use(middleware.Authenticate(tokens))

	teacherOnly := middleware.RequireRole(models.RoleTeacher)

	courses := authenticated.Group("/courses")
	{
		courses.GET("", teacherOnly, h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.GET("/:id/students", h.Courses.Students)
		courses.POST("", h.Courses.Create)
		courses.PUT("/:id", h.Courses.Update)
		courses.DELETE("/:id", h.Courses.Delete)
	}

	modules := authenticated.Group("/modules")
	{
		modules.GET("", teacherOnly, h.Modules.List)
		modules.GET("/:id", h.Modules.Get)
		modules.POST("", h.Modules.Create)
		modules.PUT("/:id", h.Modules.Update)
		modules.DELETE("/:id", h.Modules.Delete)
	}

	activities := authenticated.Group("/activities")
	{
		activities.GET("", teacherOnly, h.Activities.List)
		activities.GET("/:id", h.Activities.Get)
		activities.POST("", h.Activities.Create)
		activities.PUT("/:id", h.Activities.Update)
		activities.DELETE("/:id", h.Activities.Delete)
	}

	users := authenticated.Group("/users", teacherOnly)
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.DELETE("/:id", h.Users.Delete)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
