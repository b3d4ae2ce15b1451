package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/coach-dashboard/internal/service"
)

// NewRouter builds a gin engine with recovery, request logging and every route.
func NewRouter(registry service.Registry, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	SetupRoutes(router, registry)
	return router
}

func SetupRoutes(router *gin.Engine, registry service.Registry) {
	athleteHandler := NewAthleteHandler(registry)
	insightHandler := NewInsightHandler(registry)
	snapshotHandler := NewSnapshotHandler(registry)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		athletes := apiV1.Group("/athletes")
		{
			athletes.POST("", athleteHandler.AddAthlete)
			athletes.GET("", athleteHandler.ListAthletes)
			athletes.GET("/:athleteId", athleteHandler.GetAthlete)
			athletes.DELETE("/:athleteId", athleteHandler.RemoveAthlete)

			// --- Training Plans ---
			athletes.POST("/:athleteId/plans", athleteHandler.AddTrainingPlan)
			athletes.GET("/:athleteId/plans", athleteHandler.ListTrainingPlans)

			// --- Sessions ---
			athletes.POST("/:athleteId/sessions", athleteHandler.CompleteSession)
			athletes.GET("/:athleteId/sessions", athleteHandler.ListSessions)
		}

		insights := apiV1.Group("/insights")
		{
			insights.GET("", insightHandler.ListInsights)
			insights.POST("/:insightId/acknowledge", insightHandler.AcknowledgeInsight)
		}

		apiV1.GET("/snapshot", snapshotHandler.Export)
		apiV1.PUT("/snapshot", snapshotHandler.Restore)
	}
}
