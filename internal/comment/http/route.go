package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers comment routes under their item.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/items/:id/comments")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)    // List comments, newest first
		group.POST("", h.Create) // Comment after a finished booking
	}
}
