package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking and availability routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}

	availability := g.Group("", authMiddleware)
	{
		availability.GET("/slots", h.AllSlots)
		availability.GET("/resources/available", h.AvailableResources)
		availability.GET("/resources/:id/slots", h.ResourceSlots)
	}
}
