package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JustJay7/case-consult/internal/cache"
	"github.com/JustJay7/case-consult/internal/casefile"
	"github.com/JustJay7/case-consult/internal/config"
	"github.com/JustJay7/case-consult/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, cache cache.Cache, service *casefile.Service, exporter Exporter, logger *logger.Logger, cfg *config.Config) *Handlers {
	h := NewHandlers(db, cache, service, exporter, logger, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/cache/stats", h.CacheStats)

		// Case consult and the selected case
		api.GET("/cases/:number", h.GetCase)
		api.GET("/cases/:number/history", h.GetHistory)
		api.GET("/cases/:number/subjects", h.GetSubjects)
		api.POST("/cases/:number/events/attachments", h.ListEventAttachments)
		api.GET("/cases/:number/export/:format", h.ExportCase)
		api.DELETE("/session", h.ClearSession)

		api.GET("/attachments/:id/download", h.DownloadAttachment)

		api.GET("/consultations", h.ListConsultations)
	}

	return h
}
