package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/reports/domain"
)

// AggregationRepository sums timesheet hours per assignment.
type AggregationRepository struct {
	db *sql.DB
}

// NewAggregationRepository creates a new AggregationRepository
func NewAggregationRepository(db *sql.DB) *AggregationRepository {
	return &AggregationRepository{db: db}
}

// CumulatedHoursForAssignments returns one row per assignment in ids that has
// booked hours. Assignments without hours are absent. All ids are resolved in
// a single query.
func (r *AggregationRepository) CumulatedHoursForAssignments(ctx context.Context, ids []int64) ([]assigndomain.AssignmentHours, error) {
	if len(ids) == 0 {
		return []assigndomain.AssignmentHours{}, nil
	}

	const q = `
SELECT assignment_id, SUM(hours)
FROM timesheet_entries
WHERE assignment_id = ANY($1)
GROUP BY assignment_id
HAVING SUM(hours) > 0
ORDER BY assignment_id;
`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate hours: %w", err)
	}
	defer rows.Close()

	out := make([]assigndomain.AssignmentHours, 0, len(ids))
	for rows.Next() {
		var h assigndomain.AssignmentHours
		if err := rows.Scan(&h.AssignmentID, &h.Hours); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CumulatedHoursPerAssignment aggregates hours booked within the criteria,
// one element per assignment with a positive total.
func (r *AggregationRepository) CumulatedHoursPerAssignment(ctx context.Context, c domain.Criteria) ([]domain.AggregateElement, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if c.Range.Start != nil {
		where = append(where, "te.entry_date >= "+arg(*c.Range.Start))
	}
	if c.Range.End != nil {
		where = append(where, "te.entry_date <= "+arg(*c.Range.End))
	}
	if len(c.UserIDs) > 0 {
		where = append(where, "pa.user_id = ANY("+arg(pq.Array(c.UserIDs))+")")
	}
	if len(c.ProjectIDs) > 0 {
		where = append(where, "pa.project_id = ANY("+arg(pq.Array(c.ProjectIDs))+")")
	}

	var b strings.Builder
	b.WriteString(`
SELECT pa.id, pa.user_id, u.first_name, u.last_name,
       pa.project_id, p.code, p.name, pa.role, pa.hourly_rate,
       SUM(te.hours)
FROM timesheet_entries te
JOIN project_assignments pa ON pa.id = te.assignment_id
JOIN users u ON u.id = pa.user_id
JOIN projects p ON p.id = pa.project_id
`)
	if len(where) > 0 {
		b.WriteString("WHERE " + strings.Join(where, " AND ") + "\n")
	}
	b.WriteString(`GROUP BY pa.id, pa.user_id, u.first_name, u.last_name, pa.project_id, p.code, p.name, pa.role, pa.hourly_rate
HAVING SUM(te.hours) > 0
ORDER BY u.last_name, u.first_name, p.name, pa.id;
`)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate report: %w", err)
	}
	defer rows.Close()

	out := make([]domain.AggregateElement, 0, 32)
	for rows.Next() {
		var (
			e                   domain.AggregateElement
			firstName, lastName string
			role                sql.NullString
			rate                sql.NullFloat64
		)
		if err := rows.Scan(&e.AssignmentID, &e.UserID, &firstName, &lastName,
			&e.ProjectID, &e.ProjectCode, &e.ProjectName, &role, &rate, &e.Hours); err != nil {
			return nil, err
		}
		e.UserFullName = fullName(firstName, lastName)
		e.Role = role.String
		if rate.Valid {
			v := rate.Float64
			e.HourlyRate = &v
			e.Turnover = e.Hours * v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
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
