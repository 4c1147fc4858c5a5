package status

import (
	"context"
	"fmt"

	"github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
)

// HoursSource returns the cumulated hours of the given assignments.
type HoursSource interface {
	CumulatedHoursForAssignments(ctx context.Context, assignmentIDs []int64) ([]domain.AssignmentHours, error)
}

// Evaluator decides whether an assignment is bookable for a date range.
type Evaluator struct {
	hours HoursSource
}

// NewEvaluator creates an Evaluator reading booked hours from hours.
func NewEvaluator(hours HoursSource) *Evaluator {
	return &Evaluator{hours: hours}
}

// Status combines the date phase with, for allotted assignment types, the
// allotment phase. Date-only assignments never touch the hours source.
func (e *Evaluator) Status(ctx context.Context, a domain.ProjectAssignment, r daterange.Range) (domain.AssignmentStatus, error) {
	if !a.Active {
		return domain.AssignmentStatus{Phases: []domain.Phase{domain.PhaseInactive}}, nil
	}

	st := domain.AssignmentStatus{Phases: []domain.Phase{datePhase(a, r)}}
	if !a.Type.IsAllotted() {
		return st, nil
	}

	rows, err := e.hours.CumulatedHoursForAssignments(ctx, []int64{a.ID})
	if err != nil {
		return domain.AssignmentStatus{}, fmt.Errorf("aggregate hours for assignment %d: %w", a.ID, err)
	}
	for _, row := range rows {
		if row.AssignmentID == a.ID {
			st.AggregatedHours += row.Hours
		}
	}

	st.Phases = append(st.Phases, allottedPhase(a, st.AggregatedHours))
	return st, nil
}

func datePhase(a domain.ProjectAssignment, r daterange.Range) domain.Phase {
	if a.Span().Overlaps(r) {
		return domain.PhaseRunning
	}
	if a.Start != nil && r.End != nil && a.Start.After(*r.End) {
		return domain.PhaseBeforeStart
	}
	return domain.PhaseAfterDeadline
}

func allottedPhase(a domain.ProjectAssignment, hours float64) domain.Phase {
	allotted := valueOr(a.AllottedHours, 0)
	if hours < allotted {
		return domain.PhaseInAllotted
	}
	if !a.Type.IsFlex() {
		return domain.PhaseOverAllotted
	}
	if hours < allotted+valueOr(a.AllowedOverrun, 0) {
		return domain.PhaseInOverrun
	}
	return domain.PhaseOverOverrun
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
