package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
) {
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFoundHandler)
	router.NoMethod(middleware.MethodNotAllowedHandler)

	// Probes for orchestrators that do not know the API prefix
	router.GET("/healthz", healthController.HealthCheck)

	// API version group
	v1 := router.Group("/api/v1")

	// /api/v1/health, /api/v1/healthz
	healthController.RegisterRoutes(v1)

	// /api/v1/courses/ and /api/v1/courses/:id/
	courseController.RegisterRoutes(v1)
}
