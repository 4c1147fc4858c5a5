package http

import (
	"context"
	"log/slog"

	"github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
)

// Assignments is the assignment service as seen by the handlers.
type Assignments interface {
	ListBookableForUser(ctx context.Context, userID int64, r daterange.Range) ([]domain.ProjectAssignment, error)
	ListForUser(ctx context.Context, userID int64, hideInactive bool) ([]domain.ProjectAssignment, error)
	GetProjectAssignment(ctx context.Context, id int64) (domain.ProjectAssignment, error)
	ListForProject(ctx context.Context, projectID int64, r daterange.Range) ([]domain.ProjectAssignment, error)
	ListForProjectCheckDeletability(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error)
	ListActiveForProject(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error)
	ListAssignmentTypes(ctx context.Context) ([]domain.ProjectAssignmentType, error)
	CreateAssignment(ctx context.Context, in domain.AssignmentInput) (domain.ProjectAssignment, error)
	UpdateAssignment(ctx context.Context, id int64, in domain.AssignmentInput) (domain.ProjectAssignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
}

// Handler bundles the dependencies for assignment HTTP endpoints.
type Handler struct {
	assignments Assignments
	logger      *slog.Logger
}

func New(assignments Assignments, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{assignments: assignments, logger: logger}
}
