package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item request routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/requests")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)        // Ask for an item nobody lists yet
		group.GET("", h.ListOwn)        // Own requests with their answers
		group.GET("/all", h.ListOthers) // Requests made by other users
		group.GET("/:id", h.Get)        // One request with its answers
	}
}
