package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/api/http/request"
	"github.com/Gorgija/ehour/internal/audit/domain"
)

func (h *Handler) page(c *gin.Context) {
	req, ok := reportRequest(c, true)
	if !ok {
		return
	}

	page, err := h.audits.Page(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": page.Entries, "total": page.Total})
}

func (h *Handler) all(c *gin.Context) {
	req, ok := reportRequest(c, false)
	if !ok {
		return
	}

	entries, err := h.audits.All(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": entries})
}

// reportRequest reads action, name, from and to; offset and max only when
// paged.
func reportRequest(c *gin.Context, paged bool) (domain.AuditReportRequest, bool) {
	r, err := request.QueryRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.AuditReportRequest{}, false
	}
	req := domain.AuditReportRequest{
		Action: strings.TrimSpace(c.Query("action")),
		Name:   strings.TrimSpace(c.Query("name")),
		Range:  r,
	}
	if !paged {
		return req, true
	}

	if req.Offset, err = request.QueryInt(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.AuditReportRequest{}, false
	}
	if req.Max, err = request.QueryInt(c, "max"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.AuditReportRequest{}, false
	}
	return req, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.logger.Error("audit request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
}
