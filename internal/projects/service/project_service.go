package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/projects/domain"
)

// ProjectStore is the persistence port for projects.
type ProjectStore interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Project, error)
	FindByID(ctx context.Context, id int64) (domain.Project, error)
	Create(ctx context.Context, in domain.ProjectInput) (domain.Project, error)
	Update(ctx context.Context, id int64, in domain.ProjectInput) (domain.Project, error)
	Delete(ctx context.Context, id int64) error
}

// AssignmentIDs lists the assignment ids of a project.
type AssignmentIDs interface {
	IDsForProject(ctx context.Context, projectID int64) ([]int64, error)
}

// HoursStore reports recorded hours per assignment.
type HoursStore interface {
	CumulatedHoursForAssignments(ctx context.Context, ids []int64) ([]assigndomain.AssignmentHours, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo        ProjectStore
	assignments AssignmentIDs
	hours       HoursStore
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore, assignments AssignmentIDs, hours HoursStore, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		repo:        repo,
		assignments: assignments,
		hours:       hours,
		logger:      logger,
	}
}

// Projects returns all projects, or only active ones when hideInactive is set
func (s *ProjectService) Projects(ctx context.Context, hideInactive bool) ([]domain.Project, error) {
	return s.repo.List(ctx, hideInactive)
}

// ProjectAndCheckDeletability loads a project and marks it deletable when
// none of its assignments has booked hours
func (s *ProjectService) ProjectAndCheckDeletability(ctx context.Context, id int64) (domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	ids, err := s.assignments.IDsForProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	booked, err := s.hours.CumulatedHoursForAssignments(ctx, ids)
	if err != nil {
		return domain.Project{}, err
	}
	p.Deletable = len(booked) == 0
	return p, nil
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, in domain.ProjectInput) (domain.Project, error) {
	in, err := normalize(in, true)
	if err != nil {
		return domain.Project{}, err
	}
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Project{}, err
	}
	s.logger.Info("project created", "project_id", p.ID, "code", p.Code)
	return p, nil
}

// UpdateProject replaces a project's fields
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, in domain.ProjectInput) (domain.Project, error) {
	in, err := normalize(in, false)
	if err != nil {
		return domain.Project{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// DeleteProject deletes a project that has no booked hours
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	p, err := s.ProjectAndCheckDeletability(ctx, id)
	if err != nil {
		return err
	}
	if !p.Deletable {
		return domain.ErrNotDeletable
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project_id", id, "code", p.Code)
	return nil
}

func normalize(in domain.ProjectInput, allowBlankCode bool) (domain.ProjectInput, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Contact = strings.TrimSpace(in.Contact)

	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.Code == "" && !allowBlankCode {
		return in, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(in.Code, " \t") {
		return in, fmt.Errorf("%w: code must not contain whitespace", domain.ErrInvalidInput)
	}
	return in, nil
}
