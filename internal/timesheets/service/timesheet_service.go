package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
	"github.com/Gorgija/ehour/internal/timesheets/domain"
)

// EntryStore persists timesheet entries.
type EntryStore interface {
	Save(ctx context.Context, in domain.EntryInput) (domain.Entry, error)
	EntriesForUser(ctx context.Context, userID int64, r daterange.Range) ([]domain.Entry, error)
}

// Assignments is the part of the assignment service timesheets rely on.
type Assignments interface {
	GetProjectAssignment(ctx context.Context, id int64) (assigndomain.ProjectAssignment, error)
	ListBookableForUser(ctx context.Context, userID int64, r daterange.Range) ([]assigndomain.ProjectAssignment, error)
}

// StatusEvaluator decides whether an assignment accepts hours in a range.
type StatusEvaluator interface {
	Status(ctx context.Context, a assigndomain.ProjectAssignment, r daterange.Range) (assigndomain.AssignmentStatus, error)
}

type TimesheetService struct {
	entries     EntryStore
	assignments Assignments
	status      StatusEvaluator
	logger      *slog.Logger
}

// NewTimesheetService creates a new TimesheetService
func NewTimesheetService(entries EntryStore, assignments Assignments, status StatusEvaluator, logger *slog.Logger) *TimesheetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimesheetService{entries: entries, assignments: assignments, status: status, logger: logger}
}

// BookHours records hours for userID. The assignment must be the user's own
// and bookable on the entry's day.
func (s *TimesheetService) BookHours(ctx context.Context, userID int64, in domain.EntryInput) (domain.Entry, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Date.IsZero() {
		return domain.Entry{}, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if math.IsNaN(in.Hours) || in.Hours < 0 || in.Hours > domain.MaxHoursPerDay {
		return domain.Entry{}, fmt.Errorf("%w: hours must be between 0 and %g", domain.ErrInvalidInput, domain.MaxHoursPerDay)
	}

	a, err := s.assignments.GetProjectAssignment(ctx, in.AssignmentID)
	if err != nil {
		return domain.Entry{}, err
	}
	if a.UserID != userID {
		return domain.Entry{}, domain.ErrWrongAssignee
	}

	st, err := s.status.Status(ctx, a, daterange.Day(in.Date))
	if err != nil {
		return domain.Entry{}, err
	}
	if !st.Bookable() {
		return domain.Entry{}, fmt.Errorf("%w: %v", domain.ErrNotBookable, st.Phases)
	}

	e, err := s.entries.Save(ctx, in)
	if err != nil {
		return domain.Entry{}, err
	}
	s.logger.Debug("hours booked", "user_id", userID, "assignment_id", in.AssignmentID, "date", e.Date.Format(daterange.DateLayout), "hours", e.Hours)
	return e, nil
}

// MonthOverview groups the user's entries of month under the assignments
// bookable in that month.
func (s *TimesheetService) MonthOverview(ctx context.Context, userID int64, month time.Time) (domain.MonthOverview, error) {
	r := daterange.ForMonth(month)

	assignments, err := s.assignments.ListBookableForUser(ctx, userID, r)
	if err != nil {
		return domain.MonthOverview{}, err
	}
	entries, err := s.entries.EntriesForUser(ctx, userID, r)
	if err != nil {
		return domain.MonthOverview{}, err
	}

	byAssignment := make(map[int64][]domain.Entry, len(assignments))
	for _, e := range entries {
		byAssignment[e.AssignmentID] = append(byAssignment[e.AssignmentID], e)
	}

	ov := domain.MonthOverview{
		UserID:      userID,
		Month:       r.Start.Format(daterange.MonthLayout),
		Range:       r,
		Assignments: make([]domain.AssignmentMonth, 0, len(assignments)),
		DailyTotals: map[string]float64{},
	}
	for _, a := range assignments {
		am := domain.AssignmentMonth{Assignment: a, Entries: byAssignment[a.ID]}
		if am.Entries == nil {
			am.Entries = []domain.Entry{}
		}
		for _, e := range am.Entries {
			am.Hours += e.Hours
			ov.DailyTotals[e.Date.Format(daterange.DateLayout)] += e.Hours
		}
		ov.TotalHours += am.Hours
		ov.Assignments = append(ov.Assignments, am)
	}
	return ov, nil
}
