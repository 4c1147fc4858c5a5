package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/users/domain"
)

// UserLookup resolves the id forwarded by the gateway.
type UserLookup interface {
	User(ctx context.Context, id int64) (domain.User, error)
}

// WithUser resolves the X-User-Id header set by the gateway into an active
// user and stores it in the context. Unknown, inactive or missing users get
// a 401.
func WithUser(users UserLookup, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}

		u, err := users.User(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
				return
			}
			logger.Error("resolve request user", "user_id", id, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to resolve user"})
			return
		}
		if !u.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user is inactive"})
			return
		}

		SetUser(c, u)
		c.Next()
	}
}
