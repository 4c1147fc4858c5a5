package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/users/domain"
)

const (
	HeaderUserID = "X-User-Id"
	CtxUser      = "current_user"
)

// CurrentUser returns the user set by WithUser.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

// SetUser stores u as the request's user.
func SetUser(c *gin.Context, u domain.User) {
	c.Set(CtxUser, u)
}
