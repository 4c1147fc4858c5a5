package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/api/http/request"
	"github.com/Gorgija/ehour/internal/reports/domain"
	"github.com/Gorgija/ehour/internal/reports/export"
)

// Reports is the report service as seen by the handlers.
type Reports interface {
	AggregateReport(ctx context.Context, c domain.Criteria) (domain.AggregateReport, error)
	ExportAggregate(ctx context.Context, c domain.Criteria, out io.Writer) (string, error)
}

// Handler bundles the dependencies for report HTTP endpoints.
type Handler struct {
	reports Reports
	logger  *slog.Logger
}

func New(reports Reports, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{reports: reports, logger: logger}
}

// Register attaches report routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/aggregate", h.aggregate)
	rg.GET("/aggregate/export", h.exportAggregate)
}

func (h *Handler) aggregate(c *gin.Context) {
	criteria, ok := criteriaFromQuery(c)
	if !ok {
		return
	}

	report, err := h.reports.AggregateReport(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "report": report, "empty": domain.IsEmptyAggregateList(report.Elements)})
}

func (h *Handler) exportAggregate(c *gin.Context) {
	criteria, ok := criteriaFromQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	name, err := h.reports.ExportAggregate(c.Request.Context(), criteria, &buf)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func criteriaFromQuery(c *gin.Context) (domain.Criteria, bool) {
	r, err := request.QueryRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.Criteria{}, false
	}
	users, err := request.QueryIDs(c, "user_ids")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.Criteria{}, false
	}
	projects, err := request.QueryIDs(c, "project_ids")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.Criteria{}, false
	}
	return domain.Criteria{Range: r, UserIDs: users, ProjectIDs: projects}, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidCriteria) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.logger.Error("report request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to build report"})
}
