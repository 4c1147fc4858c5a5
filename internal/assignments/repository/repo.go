package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
)

// TypeCache serves assignment types from a shared cache.
type TypeCache interface {
	AssignmentTypes(ctx context.Context, load func(context.Context) ([]domain.ProjectAssignmentType, error)) ([]domain.ProjectAssignmentType, error)
}

// AssignmentRepository provides persistence operations for project assignments
type AssignmentRepository struct {
	db    *sql.DB
	types TypeCache
}

// NewAssignmentRepository creates a new assignment repository. types may be
// nil, in which case assignment types are read from the database each time.
func NewAssignmentRepository(db *sql.DB, types TypeCache) *AssignmentRepository {
	return &AssignmentRepository{db: db, types: types}
}

const selectAssignments = `
SELECT pa.id, pa.user_id, u.first_name, u.last_name,
       pa.project_id, p.code, p.name,
       t.id, t.code, t.name,
       pa.role, pa.hourly_rate, pa.date_start, pa.date_end, pa.active,
       pa.allotted_hours, pa.allowed_overrun, pa.notify_pm
FROM project_assignments pa
JOIN users u ON u.id = pa.user_id
JOIN projects p ON p.id = pa.project_id
JOIN project_assignment_types t ON t.id = pa.assignment_type_id
`

const orderAssignments = `
ORDER BY p.name, pa.date_start NULLS FIRST, pa.id;
`

// overlapClause matches assignments sharing at least one day with [$2, $3];
// a NULL bound on either side is open.
const overlapClause = `
  AND ($3::date IS NULL OR pa.date_start IS NULL OR pa.date_start <= $3::date)
  AND ($2::date IS NULL OR pa.date_end IS NULL OR pa.date_end >= $2::date)
`

// FindForUserInRange returns the user's assignments overlapping r.
func (r *AssignmentRepository) FindForUserInRange(ctx context.Context, userID int64, dr daterange.Range) ([]domain.ProjectAssignment, error) {
	q := selectAssignments + "WHERE pa.user_id = $1" + overlapClause + orderAssignments
	return r.query(ctx, q, userID, nullDate(dr.Start), nullDate(dr.End))
}

func (r *AssignmentRepository) FindForUser(ctx context.Context, userID int64) ([]domain.ProjectAssignment, error) {
	q := selectAssignments + "WHERE pa.user_id = $1" + orderAssignments
	return r.query(ctx, q, userID)
}

// FindByID loads one assignment; ErrNotFound when absent.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (domain.ProjectAssignment, error) {
	q := selectAssignments + "WHERE pa.id = $1;"
	a, err := scanAssignment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ProjectAssignment{}, domain.ErrNotFound
		}
		return domain.ProjectAssignment{}, fmt.Errorf("failed to get assignment %d: %w", id, err)
	}
	return a, nil
}

func (r *AssignmentRepository) FindForProjectInRange(ctx context.Context, projectID int64, dr daterange.Range) ([]domain.ProjectAssignment, error) {
	q := selectAssignments + "WHERE pa.project_id = $1" + overlapClause + orderAssignments
	return r.query(ctx, q, projectID, nullDate(dr.Start), nullDate(dr.End))
}

func (r *AssignmentRepository) FindAllForProject(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error) {
	q := selectAssignments + "WHERE pa.project_id = $1" + orderAssignments
	return r.query(ctx, q, projectID)
}

func (r *AssignmentRepository) FindActiveForProject(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error) {
	q := selectAssignments + "WHERE pa.project_id = $1 AND pa.active" + orderAssignments
	return r.query(ctx, q, projectID)
}

// IDsForUser lists the ids of every assignment of the user.
func (r *AssignmentRepository) IDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.ids(ctx, `SELECT id FROM project_assignments WHERE user_id = $1 ORDER BY id;`, userID)
}

// IDsForProject lists the ids of every assignment on the project.
func (r *AssignmentRepository) IDsForProject(ctx context.Context, projectID int64) ([]int64, error) {
	return r.ids(ctx, `SELECT id FROM project_assignments WHERE project_id = $1 ORDER BY id;`, projectID)
}

// FindAssignmentTypes returns the static type list, through the cache when
// one is configured.
func (r *AssignmentRepository) FindAssignmentTypes(ctx context.Context) ([]domain.ProjectAssignmentType, error) {
	if r.types != nil {
		return r.types.AssignmentTypes(ctx, r.loadAssignmentTypes)
	}
	return r.loadAssignmentTypes(ctx)
}

func (r *AssignmentRepository) loadAssignmentTypes(ctx context.Context) ([]domain.ProjectAssignmentType, error) {
	const q = `SELECT id, code, name FROM project_assignment_types ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment types: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProjectAssignmentType, 0, 3)
	for rows.Next() {
		var t domain.ProjectAssignmentType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a new assignment and returns it fully joined.
func (r *AssignmentRepository) Create(ctx context.Context, in domain.AssignmentInput) (domain.ProjectAssignment, error) {
	const q = `
INSERT INTO project_assignments (
    user_id, project_id, assignment_type_id, role, hourly_rate,
    date_start, date_end, active, allotted_hours, allowed_overrun, notify_pm
)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
RETURNING id;
`
	var id int64
	err := r.db.QueryRowContext(ctx, q, inputArgs(in)...).Scan(&id)
	if err != nil {
		return domain.ProjectAssignment{}, translate(err, "create assignment")
	}
	return r.FindByID(ctx, id)
}

// Update overwrites the persisted fields of an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, id int64, in domain.AssignmentInput) (domain.ProjectAssignment, error) {
	const q = `
UPDATE project_assignments
SET user_id = $1, project_id = $2, assignment_type_id = $3, role = NULLIF($4, ''),
    hourly_rate = $5, date_start = $6, date_end = $7, active = $8,
    allotted_hours = $9, allowed_overrun = $10, notify_pm = $11, updated_at = now()
WHERE id = $12;
`
	args := append(inputArgs(in), id)
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.ProjectAssignment{}, translate(err, "update assignment")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ProjectAssignment{}, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes assignment id together with its zero-hour entries, which
// only carry comments. Entries with hours keep the assignment in place.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timesheet_entries WHERE assignment_id = $1 AND hours = 0;`, id); err != nil {
		return fmt.Errorf("failed to delete assignment entries: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM project_assignments WHERE id = $1;`, id)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotDeletable
		}
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// translate maps foreign key violations to invalid input and wraps the rest.
func translate(err error, op string) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Message)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
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

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
