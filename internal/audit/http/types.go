package http

import (
	"context"
	"log/slog"

	"github.com/Gorgija/ehour/internal/audit/domain"
)

// Audits is the audit service as seen by the handlers.
type Audits interface {
	Page(ctx context.Context, req domain.AuditReportRequest) (domain.AuditPage, error)
	All(ctx context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error)
}

// Handler bundles the dependencies for audit HTTP endpoints.
type Handler struct {
	audits Audits
	logger *slog.Logger
}

func New(audits Audits, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{audits: audits, logger: logger}
}
