package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Gorgija/ehour/internal/daterange"
	"github.com/Gorgija/ehour/internal/timesheets/domain"
)

// EntryRepository stores timesheet entries.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Save upserts the entry for (assignment, day), or deletes it when in clears
// the day.
func (r *EntryRepository) Save(ctx context.Context, in domain.EntryInput) (domain.Entry, error) {
	day := truncateDay(in.Date)

	if in.Clears() {
		const del = `DELETE FROM timesheet_entries WHERE assignment_id = $1 AND entry_date = $2;`
		if _, err := r.db.ExecContext(ctx, del, in.AssignmentID, day); err != nil {
			return domain.Entry{}, fmt.Errorf("failed to clear timesheet entry: %w", err)
		}
		return domain.Entry{AssignmentID: in.AssignmentID, Date: day}, nil
	}

	const q = `
INSERT INTO timesheet_entries (assignment_id, entry_date, hours, comment, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (assignment_id, entry_date)
DO UPDATE SET hours = EXCLUDED.hours, comment = EXCLUDED.comment, updated_at = now()
RETURNING updated_at;
`
	e := domain.Entry{AssignmentID: in.AssignmentID, Date: day, Hours: in.Hours, Comment: in.Comment}
	err := r.db.QueryRowContext(ctx, q, in.AssignmentID, day, in.Hours, in.Comment).Scan(&e.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == "23514" || pqErr.Code == "23503") {
			return domain.Entry{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, pqErr.Message)
		}
		return domain.Entry{}, fmt.Errorf("failed to save timesheet entry: %w", err)
	}
	return e, nil
}

// EntriesForUser lists the user's entries within r ordered by date.
func (r *EntryRepository) EntriesForUser(ctx context.Context, userID int64, dr daterange.Range) ([]domain.Entry, error) {
	const q = `
SELECT te.assignment_id, te.entry_date, te.hours, te.comment, te.updated_at
FROM timesheet_entries te
JOIN project_assignments pa ON pa.id = te.assignment_id
WHERE pa.user_id = $1
  AND ($2::date IS NULL OR te.entry_date >= $2)
  AND ($3::date IS NULL OR te.entry_date <= $3)
ORDER BY te.entry_date, te.assignment_id;
`
	rows, err := r.db.QueryContext(ctx, q, userID, nullDate(dr.Start), nullDate(dr.End))
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Entry, 0, 32)
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.AssignmentID, &e.Date, &e.Hours, &e.Comment, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	return out, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: truncateDay(*t), Valid: true}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
