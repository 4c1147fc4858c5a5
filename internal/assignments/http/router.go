package http

import "github.com/gin-gonic/gin"

// Register attaches the assignment routes to rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/types", h.types)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

// RegisterUserRoutes attaches the per-user listings under a /users group.
func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/assignments", h.listForUser)
	rg.GET("/:id/assignments/bookable", h.listBookableForUser)
}

// RegisterProjectRoutes attaches the per-project listings under a /projects
// group.
func (h *Handler) RegisterProjectRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/assignments", h.listForProject)
	rg.GET("/:id/assignments/range", h.listForProjectInRange)
	rg.GET("/:id/assignments/active", h.listActiveForProject)
}
