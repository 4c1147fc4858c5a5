package http

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/auth"
	"github.com/Gorgija/ehour/internal/daterange"
	"github.com/Gorgija/ehour/internal/reports/export"
	"github.com/Gorgija/ehour/internal/timesheets/domain"
)

func (h *Handler) month(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	month, ok := queryMonth(c)
	if !ok {
		return
	}

	ov, err := h.timesheets.MonthOverview(c.Request.Context(), userID, month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "timesheet": ov})
}

func (h *Handler) exportMonth(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	month, ok := queryMonth(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	name, err := h.timesheets.ExportMonth(c.Request.Context(), userID, month, &buf)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *Handler) book(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	date, err := time.Parse(daterange.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid date"})
		return
	}

	e, err := h.timesheets.BookHours(c.Request.Context(), userID, domain.EntryInput{
		AssignmentID: req.AssignmentID,
		Date:         date,
		Hours:        req.Hours,
		Comment:      req.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "entry": e})
}

func currentUserID(c *gin.Context) (int64, bool) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return 0, false
	}
	return u.ID, true
}

// queryMonth reads "month" as "2006-01"; absent means the current month.
func queryMonth(c *gin.Context) (time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		return time.Now(), true
	}
	r, err := daterange.ParseMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return time.Time{}, false
	}
	return *r.Start, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assigndomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "assignment not found"})
	case errors.Is(err, domain.ErrWrongAssignee):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotBookable):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		h.logger.Error("timesheet request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
