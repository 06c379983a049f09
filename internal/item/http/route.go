package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)          // List own items
		group.GET("/search", h.Search) // Search available items
		group.GET("/:id", h.Get)       // Get item, with schedule for the owner
		group.POST("", h.Create)       // Create item
		group.PATCH("/:id", h.Update)  // Update item (owner only)
	}
}
