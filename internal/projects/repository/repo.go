package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Gorgija/ehour/internal/projects/domain"
	"github.com/Gorgija/ehour/internal/projects/utils"
)

const codeAttempts = 5

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const selectProjects = `
SELECT p.id, p.code, p.name, p.description, p.contact, p.active, p.default_project,
       p.project_manager_id, COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
       p.created_at, p.updated_at
FROM projects p
LEFT JOIN users u ON u.id = p.project_manager_id
`

// List returns every project, or only the active ones, ordered by name.
func (r *ProjectRepository) List(ctx context.Context, activeOnly bool) ([]domain.Project, error) {
	q := selectProjects
	if activeOnly {
		q += "WHERE p.active\n"
	}
	q += "ORDER BY LOWER(p.name), p.id"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return out, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProjects+"WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return p, nil
}

// Create inserts a new project. When in.Code is blank a code is generated
// from the name, retrying on collisions.
func (r *ProjectRepository) Create(ctx context.Context, in domain.ProjectInput) (domain.Project, error) {
	generated := strings.TrimSpace(in.Code) == ""

	const q = `
INSERT INTO projects (code, name, description, contact, active, default_project, project_manager_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;
`
	for i := 0; i < codeAttempts; i++ {
		code := in.Code
		if generated {
			var err error
			if code, err = utils.NewCode(in.Name); err != nil {
				return domain.Project{}, err
			}
		}

		var id int64
		err := r.db.QueryRowContext(ctx, q,
			code, in.Name, in.Description, in.Contact, in.Active, in.DefaultProject, nullID(in.ProjectManagerID),
		).Scan(&id)
		if err == nil {
			return r.FindByID(ctx, id)
		}

		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && generated {
			continue
		}
		return domain.Project{}, fmt.Errorf("failed to create project: %w", translate(err))
	}

	return domain.Project{}, fmt.Errorf("failed to generate unique project code")
}

// Update replaces the writable fields of project id.
func (r *ProjectRepository) Update(ctx context.Context, id int64, in domain.ProjectInput) (domain.Project, error) {
	const q = `
UPDATE projects
SET code = $2, name = $3, description = $4, contact = $5, active = $6,
    default_project = $7, project_manager_id = $8, updated_at = now()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q,
		id, in.Code, in.Name, in.Description, in.Contact, in.Active, in.DefaultProject, nullID(in.ProjectManagerID),
	)
	if err != nil {
		return domain.Project{}, fmt.Errorf("failed to update project %d: %w", id, translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Project{}, err
	}
	if n == 0 {
		return domain.Project{}, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes project id. Projects still referenced by assignments are
// not deletable.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotDeletable
		}
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (domain.Project, error) {
	var (
		p       domain.Project
		pmID    sql.NullInt64
		pmFirst string
		pmLast  string
	)
	err := s.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Contact, &p.Active, &p.DefaultProject,
		&pmID, &pmFirst, &pmLast,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	if pmID.Valid {
		p.ProjectManager = &domain.ProjectManager{ID: pmID.Int64, FullName: fullName(pmFirst, pmLast)}
	}
	return p, nil
}

func translate(err error) error {
	var pgErr *pq.Error
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return domain.ErrDuplicate
	case "23503":
		return fmt.Errorf("%w: unknown project manager", domain.ErrInvalidInput)
	}
	return err
}

func fullName(first, last string) string {
	switch {
	case last == "":
		return first
	case first == "":
		return last
	default:
		return last + ", " + first
	}
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
