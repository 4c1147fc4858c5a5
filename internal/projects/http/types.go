package http

import (
	"context"
	"log/slog"

	"github.com/Gorgija/ehour/internal/projects/domain"
)

// Projects is the project service as seen by the handlers.
type Projects interface {
	Projects(ctx context.Context, hideInactive bool) ([]domain.Project, error)
	ProjectAndCheckDeletability(ctx context.Context, id int64) (domain.Project, error)
	CreateProject(ctx context.Context, in domain.ProjectInput) (domain.Project, error)
	UpdateProject(ctx context.Context, id int64, in domain.ProjectInput) (domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	projects Projects
	logger   *slog.Logger
}

func New(projects Projects, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{projects: projects, logger: logger}
}
