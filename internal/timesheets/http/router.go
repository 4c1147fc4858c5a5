package http

import "github.com/gin-gonic/gin"

// Register attaches the timesheet routes of the current user.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/month", h.month)
	rg.GET("/month/export", h.exportMonth)
	rg.PUT("/entries", h.book)
}
