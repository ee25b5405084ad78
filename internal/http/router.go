package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())
	router.Use(RequestIDMiddleware())

	if cfg.RateLimitRPS > 0 {
		router.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Catalog, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group(cfg.APIPrefix)

	artists := NewArtistsController(cfg.Catalog, cfg.Auditor)
	api.GET("/artists", artists.List)
	api.POST("/artists", artists.Create)
	api.GET("/artists/:id", artists.Get)
	api.PUT("/artists/:id", artists.Update)
	api.DELETE("/artists/:id", artists.Delete)

	albums := NewAlbumsController(cfg.Catalog, cfg.Auditor)
	api.GET("/albums", albums.List)
	api.POST("/albums", albums.Create)
	api.GET("/albums/:id", albums.Get)
	api.PUT("/albums/:id", albums.Update)
	api.DELETE("/albums/:id", albums.Delete)

	songs := NewSongsController(cfg.Catalog, cfg.Auditor)
	api.GET("/songs", songs.List)
	api.POST("/songs", songs.Create)
	api.GET("/songs/:id", songs.Get)
	api.PUT("/songs/:id", songs.Update)
	api.DELETE("/songs/:id", songs.Delete)

	stats := NewStatsController(cfg.Catalog)
	api.GET("/stats", stats.Get)

	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.POST("/tasks/:type/run", tasksController.RunTask)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
