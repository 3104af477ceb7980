package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
	api.GET("/meta", h.getMeta)

	session := api.Group("", WorkspaceMiddleware(h.registry, h.cfg, h.logger))

	auth := session.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/signup", h.signup)
		auth.POST("/logout", h.logout)
		auth.GET("/me", h.me)
	}

	authorized := session.Group("", RequireIdentity(h.logger))

	// Маршруты для управления инцидентами
	incidents := authorized.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.POST("", h.createIncident)
		incidents.POST("/refresh", h.refreshIncidents)
		incidents.PATCH("/:id", h.updateIncident)
		incidents.DELETE("/:id", h.deleteIncident)
	}

	authorized.GET("/dashboard/summary", h.getSummary)
	authorized.GET("/map/markers", h.getMarkers)
}
