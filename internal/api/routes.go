package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(gin.Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", handler.ListAssignments)
			assignments.GET("/:id/report", handler.GetAssignmentReport)
			assignments.GET("/:id/repos", handler.GetAssignmentRoster)
			assignments.POST("/:id/repos", handler.CreateAssignmentRepo)
		}

		v1.POST("/group-assignments/:id/repos", handler.CreateGroupAssignmentRepo)

		v1.DELETE("/assignment-repos/:id", handler.DeleteAssignmentRepo)
		v1.DELETE("/group-assignment-repos/:id", handler.DeleteGroupAssignmentRepo)
	}

	return router
}
