package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Gorgija/ehour/internal/timesheets/domain"
)

// Timesheets is the timesheet service as seen by the handlers.
type Timesheets interface {
	BookHours(ctx context.Context, userID int64, in domain.EntryInput) (domain.Entry, error)
	MonthOverview(ctx context.Context, userID int64, month time.Time) (domain.MonthOverview, error)
	ExportMonth(ctx context.Context, userID int64, month time.Time, out io.Writer) (string, error)
}

type Handler struct {
	timesheets Timesheets
	logger     *slog.Logger
}

// New creates a new Handler
func New(timesheets Timesheets, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{timesheets: timesheets, logger: logger}
}

// bookRequest takes the day as "2006-01-02".
type bookRequest struct {
	AssignmentID int64   `json:"assignment_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	Hours        float64 `json:"hours"`
	Comment      string  `json:"comment"`
}
