// Package routes wires the v1 endpoints to their handlers.
package routes

import (
	"github.com/gin-gonic/gin"

	"reelscribe/internal/api/v1/handlers"
	"reelscribe/internal/api/v1/services"
)

// ServiceContainer holds the services the handlers need.
type ServiceContainer struct {
	JobService      services.JobService
	DownloadService services.DownloadService
}

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	jobHandler := handlers.NewJobHandler(container.JobService)
	jobs := router.Group("/jobs")
	{
		jobs.POST("", jobHandler.Create)
		jobs.GET("/:id/status", jobHandler.Status)
		jobs.GET("/:id/result", jobHandler.Result)
	}
}
