package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JustJay7/consumer-complaint-assistant/internal/analytics"
	"github.com/JustJay7/consumer-complaint-assistant/internal/chat"
	"github.com/JustJay7/consumer-complaint-assistant/internal/config"
	"github.com/JustJay7/consumer-complaint-assistant/internal/filing"
	"github.com/JustJay7/consumer-complaint-assistant/internal/location"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

// Services are the domain components the handlers delegate to
type Services struct {
	Filing   *filing.Service
	Recorder *analytics.Recorder
	Chat     *chat.Relay
	Location *location.Lookup
}

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, svc Services, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(svc, logger, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		// Forum information
		api.GET("/forums", h.ListForums)
		api.GET("/forums/recommend", h.RecommendForum)

		// Complaint generation
		api.POST("/complaints/validate", h.ValidateComplaint)
		api.POST("/complaints", h.GenerateComplaint)

		// Assistant
		api.POST("/chat", h.SendChat)
		api.DELETE("/chat/:sessionId", h.ClearChat)

		// Location pick lists
		api.GET("/locations/states", h.ListStates)
		api.GET("/locations/states/:id/districts", h.ListDistricts)
		api.DELETE("/locations/cache", h.ClearLocationCache)

		// Analytics dashboard
		api.GET("/analytics/summary", h.AnalyticsSummary)
		api.GET("/analytics/today", h.AnalyticsToday)
		api.GET("/analytics/stats", h.AnalyticsStats)
		api.GET("/analytics/records", h.AnalyticsRecords)
	}
}
