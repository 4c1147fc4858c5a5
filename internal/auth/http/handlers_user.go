package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/auth"
	"github.com/Gorgija/ehour/internal/users/domain"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

// ChangePassword sets a new password for the current user
func (h *Handler) ChangePassword(c *gin.Context) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	if err := h.passwords.ChangePassword(c.Request.Context(), u, u.ID, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		h.logger.Error("change password", "user_id", u.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
