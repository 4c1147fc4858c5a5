package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
)

// AssignmentStore persists and retrieves project assignments.
type AssignmentStore interface {
	FindForUserInRange(ctx context.Context, userID int64, r daterange.Range) ([]domain.ProjectAssignment, error)
	FindForUser(ctx context.Context, userID int64) ([]domain.ProjectAssignment, error)
	FindByID(ctx context.Context, id int64) (domain.ProjectAssignment, error)
	FindForProjectInRange(ctx context.Context, projectID int64, r daterange.Range) ([]domain.ProjectAssignment, error)
	FindAllForProject(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error)
	FindActiveForProject(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error)
	FindAssignmentTypes(ctx context.Context) ([]domain.ProjectAssignmentType, error)

	Create(ctx context.Context, in domain.AssignmentInput) (domain.ProjectAssignment, error)
	Update(ctx context.Context, id int64, in domain.AssignmentInput) (domain.ProjectAssignment, error)
	Delete(ctx context.Context, id int64) error
}

// AggregationStore sums recorded hours per assignment. It returns one row per
// assignment that has hours; assignments without hours are absent.
type AggregationStore interface {
	CumulatedHoursForAssignments(ctx context.Context, assignmentIDs []int64) ([]domain.AssignmentHours, error)
}

type StatusEvaluator interface {
	Status(ctx context.Context, a domain.ProjectAssignment, r daterange.Range) (domain.AssignmentStatus, error)
}

// AssignmentService answers assignment queries enriched with bookability and
// deletability. It never writes derived state back to the store.
type AssignmentService struct {
	store      AssignmentStore
	aggregates AggregationStore
	status     StatusEvaluator
	now        func() time.Time
	logger     *slog.Logger
}

// NewAssignmentService creates a new AssignmentService. A nil clock defaults
// to time.Now and a nil logger to slog.Default().
func NewAssignmentService(store AssignmentStore, aggregates AggregationStore, status StatusEvaluator, now func() time.Time, logger *slog.Logger) *AssignmentService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentService{
		store:      store,
		aggregates: aggregates,
		status:     status,
		now:        now,
		logger:     logger,
	}
}

// ListBookableForUser returns the user's assignments overlapping r that are
// bookable for r, in store order.
func (s *AssignmentService) ListBookableForUser(ctx context.Context, userID int64, r daterange.Range) ([]domain.ProjectAssignment, error) {
	assignments, err := s.store.FindForUserInRange(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	valid := make([]domain.ProjectAssignment, 0, len(assignments))
	for _, a := range assignments {
		st, err := s.status.Status(ctx, a, r)
		if err != nil {
			return nil, err
		}
		if st.Bookable() {
			valid = append(valid, a)
		}
	}
	return valid, nil
}

// ListForUser returns all assignments of the user. With hideInactive only
// assignments that are active and running at the current time are kept.
func (s *AssignmentService) ListForUser(ctx context.Context, userID int64, hideInactive bool) ([]domain.ProjectAssignment, error) {
	assignments, err := s.store.FindForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hideInactive {
		return nonNil(assignments), nil
	}

	now := s.now()
	filtered := make([]domain.ProjectAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.CurrentlyActive(now) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// GetProjectAssignment loads one assignment and flags it deletable when no
// hours were ever booked on it.
func (s *AssignmentService) GetProjectAssignment(ctx context.Context, id int64) (domain.ProjectAssignment, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.ProjectAssignment{}, err
	}

	aggregates, err := s.aggregates.CumulatedHoursForAssignments(ctx, []int64{id})
	if err != nil {
		return domain.ProjectAssignment{}, err
	}
	a.Deletable = len(aggregates) == 0

	return a, nil
}

// ListForProject returns the project's assignments overlapping r.
func (s *AssignmentService) ListForProject(ctx context.Context, projectID int64, r daterange.Range) ([]domain.ProjectAssignment, error) {
	assignments, err := s.store.FindForProjectInRange(ctx, projectID, r)
	if err != nil {
		return nil, err
	}
	return nonNil(assignments), nil
}

// ListForProjectCheckDeletability returns every assignment of the project with
// Deletable set. All ids are aggregated in a single store call.
func (s *AssignmentService) ListForProjectCheckDeletability(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error) {
	assignments, err := s.store.FindAllForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []domain.ProjectAssignment{}, nil
	}

	if err := MarkDeletable(ctx, s.aggregates, assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListActiveForProject returns the project's active assignments.
func (s *AssignmentService) ListActiveForProject(ctx context.Context, projectID int64) ([]domain.ProjectAssignment, error) {
	assignments, err := s.store.FindActiveForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return nonNil(assignments), nil
}

// ListAssignmentTypes returns the assignment type reference data.
func (s *AssignmentService) ListAssignmentTypes(ctx context.Context) ([]domain.ProjectAssignmentType, error) {
	types, err := s.store.FindAssignmentTypes(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		return []domain.ProjectAssignmentType{}, nil
	}
	return types, nil
}

// CreateAssignment validates and stores a new assignment.
func (s *AssignmentService) CreateAssignment(ctx context.Context, in domain.AssignmentInput) (domain.ProjectAssignment, error) {
	if err := s.validate(ctx, in); err != nil {
		return domain.ProjectAssignment{}, err
	}

	created, err := s.store.Create(ctx, in)
	if err != nil {
		return domain.ProjectAssignment{}, err
	}

	s.logger.Info("assignment created", "assignment_id", created.ID, "user_id", in.UserID, "project_id", in.ProjectID)
	created.Deletable = true
	return created, nil
}

func (s *AssignmentService) UpdateAssignment(ctx context.Context, id int64, in domain.AssignmentInput) (domain.ProjectAssignment, error) {
	if err := s.validate(ctx, in); err != nil {
		return domain.ProjectAssignment{}, err
	}

	if _, err := s.store.FindByID(ctx, id); err != nil {
		return domain.ProjectAssignment{}, err
	}

	if _, err := s.store.Update(ctx, id, in); err != nil {
		return domain.ProjectAssignment{}, err
	}

	s.logger.Info("assignment updated", "assignment_id", id)
	return s.GetProjectAssignment(ctx, id)
}

// DeleteAssignment removes an assignment that has no booked hours.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id int64) error {
	a, err := s.GetProjectAssignment(ctx, id)
	if err != nil {
		return err
	}
	if !a.Deletable {
		return domain.ErrNotDeletable
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("assignment deleted", "assignment_id", id)
	return nil
}

func (s *AssignmentService) validate(ctx context.Context, in domain.AssignmentInput) error {
	if in.UserID <= 0 {
		return fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	if in.ProjectID <= 0 {
		return fmt.Errorf("%w: project is required", domain.ErrInvalidInput)
	}
	if err := daterange.New(in.Start, in.End).Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.HourlyRate != nil && *in.HourlyRate < 0 {
		return fmt.Errorf("%w: hourly rate must not be negative", domain.ErrInvalidInput)
	}

	types, err := s.ListAssignmentTypes(ctx)
	if err != nil {
		return err
	}
	t, ok := findType(types, in.TypeID)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownType, in.TypeID)
	}

	if t.IsAllotted() && (in.AllottedHours == nil || *in.AllottedHours <= 0) {
		return fmt.Errorf("%w: %s assignments need allotted hours", domain.ErrInvalidInput, t.Code)
	}
	if t.IsFlex() && (in.AllowedOverrun == nil || *in.AllowedOverrun < 0) {
		return fmt.Errorf("%w: flex assignments need an allowed overrun", domain.ErrInvalidInput)
	}
	return nil
}

// MarkDeletable sets Deletable on every assignment using one aggregation
// call for all of them: an assignment is deletable iff it has no row.
func MarkDeletable(ctx context.Context, aggregates AggregationStore, assignments []domain.ProjectAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	byID := make(map[int64][]int, len(assignments))
	ids := make([]int64, 0, len(assignments))
	for i := range assignments {
		assignments[i].Deletable = true
		id := assignments[i].ID
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], i)
	}

	rows, err := aggregates.CumulatedHoursForAssignments(ctx, ids)
	if err != nil {
		return err
	}

	for _, row := range rows {
		for _, i := range byID[row.AssignmentID] {
			assignments[i].Deletable = false
		}
	}
	return nil
}

func findType(types []domain.ProjectAssignmentType, id int) (domain.ProjectAssignmentType, bool) {
	for _, t := range types {
		if t.ID == id {
			return t, true
		}
	}
	return domain.ProjectAssignmentType{}, false
}

func nonNil(in []domain.ProjectAssignment) []domain.ProjectAssignment {
	if in == nil {
		return []domain.ProjectAssignment{}
	}
	return in
}
