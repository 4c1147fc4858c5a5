package http

import "github.com/gin-gonic/gin"

// Register attaches user routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/roles", h.roles)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.PUT("/:id/password", h.changePassword)
	rg.DELETE("/:id", h.delete)
}

// RegisterDepartments attaches department routes to the given router group.
func (h *Handler) RegisterDepartments(rg *gin.RouterGroup) {
	rg.GET("", h.departments)
	rg.POST("", h.createDepartment)
}
