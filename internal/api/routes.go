package api

import (
	"energia_assistant/internal/repository"
	"energia_assistant/internal/service"

	"github.com/gin-gonic/gin"
)

// NewRouter returns an engine with the shared middleware
func NewRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(Logger())
	r.Use(CORS())

	r.GET("/health", Health)
	return r
}

// SetupRoutes configures the analysis and transmission API
func SetupRoutes(r *gin.Engine, svc *service.Service) {
	h := NewHandler(svc)

	api := r.Group("/api")
	{
		api.GET("/today", h.GetToday)
		api.GET("/today/series", h.GetTodaySeries)
		api.POST("/analyze", h.Analyze)
		api.POST("/send", h.Send)
		api.GET("/stats", h.GetStats)
	}
}

// SetupCollectorRoutes configures the collector service
func SetupCollectorRoutes(r *gin.Engine, store repository.Store) {
	h := NewCollectorHandler(store)

	r.GET("/", h.Root)
	r.POST("/enviar/", h.Receive)
	// accept the path without the trailing slash too
	r.POST("/enviar", h.Receive)
	r.GET("/recebidos", h.List)
}
