package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/api/http/request"
	"github.com/Gorgija/ehour/internal/auth"
	"github.com/Gorgija/ehour/internal/users/domain"
)

func (h *Handler) list(c *gin.Context) {
	users, err := h.users.Users(c.Request.Context(), request.QueryBool(c, "hide_inactive", false))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.users.UserAndCheckDeletability(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) create(c *gin.Context) {
	editor, _ := auth.CurrentUser(c)

	var in domain.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.users.CreateUser(c.Request.Context(), editor, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	editor, _ := auth.CurrentUser(c)

	var in domain.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.users.UpdateUser(c.Request.Context(), editor, id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) changePassword(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	editor, _ := auth.CurrentUser(c)

	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), editor, id, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	editor, _ := auth.CurrentUser(c)

	if err := h.users.DeleteUser(c.Request.Context(), editor, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) roles(c *gin.Context) {
	roles, err := h.users.UserRoles(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "roles": roles})
}

func (h *Handler) departments(c *gin.Context) {
	depts, err := h.users.UserDepartments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "departments": depts})
}

func (h *Handler) createDepartment(c *gin.Context) {
	var d domain.Department
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	d, err := h.users.CreateDepartment(c.Request.Context(), d)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "department": d})
}

func userID(c *gin.Context) (int64, bool) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownRole):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotDeletable), errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		h.logger.Error("user request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
