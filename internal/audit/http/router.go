package http

import "github.com/gin-gonic/gin"

// Register attaches audit trail queries to rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.page)
	rg.GET("/all", h.all)
}
