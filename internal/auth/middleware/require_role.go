package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/auth"
)

// RequireRole lets the request through when the current user holds any of
// roles. It must run after auth.WithUser.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}
		for _, r := range roles {
			if u.HasRole(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "insufficient role"})
	}
}
