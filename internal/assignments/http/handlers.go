package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/api/http/request"
	"github.com/Gorgija/ehour/internal/assignments/domain"
)

func (h *Handler) types(c *gin.Context) {
	types, err := h.assignments.ListAssignmentTypes(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "types": types})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	a, err := h.assignments.GetProjectAssignment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignment": a})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	a, err := h.assignments.CreateAssignment(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "assignment": a})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in domain.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	a, err := h.assignments.UpdateAssignment(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignment": a})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.assignments.DeleteAssignment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listForUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	items, err := h.assignments.ListForUser(c.Request.Context(), userID, request.QueryBool(c, "hide_inactive", false))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": items})
}

func (h *Handler) listBookableForUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	r, err := request.QueryRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	items, err := h.assignments.ListBookableForUser(c.Request.Context(), userID, r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": items})
}

func (h *Handler) listForProject(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	items, err := h.assignments.ListForProjectCheckDeletability(c.Request.Context(), projectID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": items})
}

func (h *Handler) listForProjectInRange(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	r, err := request.QueryRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	items, err := h.assignments.ListForProject(c.Request.Context(), projectID, r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": items})
}

func (h *Handler) listActiveForProject(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	items, err := h.assignments.ListActiveForProject(c.Request.Context(), projectID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": items})
}

func pathID(c *gin.Context) (int64, bool) {
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
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "assignment not found"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownType):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotDeletable):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		h.logger.Error("assignment request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
