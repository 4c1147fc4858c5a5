package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
	"github.com/Gorgija/ehour/internal/timesheets/domain"
)

type fakeEntries struct {
	saved   []domain.EntryInput
	entries []domain.Entry
	gotUser int64
	gotR    daterange.Range
}

func (f *fakeEntries) Save(_ context.Context, in domain.EntryInput) (domain.Entry, error) {
	f.saved = append(f.saved, in)
	return domain.Entry{AssignmentID: in.AssignmentID, Date: in.Date, Hours: in.Hours, Comment: in.Comment}, nil
}

func (f *fakeEntries) EntriesForUser(_ context.Context, userID int64, r daterange.Range) ([]domain.Entry, error) {
	f.gotUser, f.gotR = userID, r
	return f.entries, nil
}

type fakeAssignments struct {
	byID     map[int64]assigndomain.ProjectAssignment
	bookable []assigndomain.ProjectAssignment
	gotR     daterange.Range
}

func (f *fakeAssignments) GetProjectAssignment(_ context.Context, id int64) (assigndomain.ProjectAssignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return assigndomain.ProjectAssignment{}, assigndomain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssignments) ListBookableForUser(_ context.Context, _ int64, r daterange.Range) ([]assigndomain.ProjectAssignment, error) {
	f.gotR = r
	return f.bookable, nil
}

// fakeStatus books only inside the assignment's span; FIXED assignment 3 is
// exhausted.
type fakeStatus struct {
	ranges []daterange.Range
}

func (f *fakeStatus) Status(_ context.Context, a assigndomain.ProjectAssignment, r daterange.Range) (assigndomain.AssignmentStatus, error) {
	f.ranges = append(f.ranges, r)
	phases := []assigndomain.Phase{assigndomain.PhaseRunning}
	if !a.Span().Overlaps(r) {
		phases[0] = assigndomain.PhaseAfterDeadline
	}
	if a.ID == 3 {
		phases = append(phases, assigndomain.PhaseOverAllotted)
	}
	return assigndomain.AssignmentStatus{Phases: phases}, nil
}

func day(s string) time.Time {
	t, err := time.Parse(daterange.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func newService() (*TimesheetService, *fakeEntries, *fakeAssignments, *fakeStatus) {
	entries := &fakeEntries{}
	assignments := &fakeAssignments{byID: map[int64]assigndomain.ProjectAssignment{
		1: {ID: 1, UserID: 7, Active: true, Start: ptr(day("2024-01-01")), End: ptr(day("2024-06-30")), ProjectCode: "ENG", ProjectName: "Engine", UserFullName: "Lovelace, Ada"},
		2: {ID: 2, UserID: 8, Active: true},
		3: {ID: 3, UserID: 7, Active: true},
	}}
	status := &fakeStatus{}
	return NewTimesheetService(entries, assignments, status, nil), entries, assignments, status
}

func TestBookHours(t *testing.T) {
	svc, entries, _, status := newService()

	e, err := svc.BookHours(context.Background(), 7, domain.EntryInput{AssignmentID: 1, Date: day("2024-03-04"), Hours: 8, Comment: " design "})
	require.NoError(t, err)
	assert.Equal(t, 8.0, e.Hours)
	assert.Equal(t, "design", entries.saved[0].Comment)

	require.Len(t, status.ranges, 1)
	assert.Equal(t, daterange.Day(day("2024-03-04")), status.ranges[0])
}

func TestBookHours_Rejects(t *testing.T) {
	tests := []struct {
		name string
		user int64
		in   domain.EntryInput
		want error
	}{
		{"other user's assignment", 7, domain.EntryInput{AssignmentID: 2, Date: day("2024-03-04"), Hours: 1}, domain.ErrWrongAssignee},
		{"outside the assignment", 7, domain.EntryInput{AssignmentID: 1, Date: day("2024-07-01"), Hours: 1}, domain.ErrNotBookable},
		{"over allotment", 7, domain.EntryInput{AssignmentID: 3, Date: day("2024-03-04"), Hours: 1}, domain.ErrNotBookable},
		{"negative hours", 7, domain.EntryInput{AssignmentID: 1, Date: day("2024-03-04"), Hours: -1}, domain.ErrInvalidInput},
		{"too many hours", 7, domain.EntryInput{AssignmentID: 1, Date: day("2024-03-04"), Hours: 24.5}, domain.ErrInvalidInput},
		{"missing date", 7, domain.EntryInput{AssignmentID: 1, Hours: 1}, domain.ErrInvalidInput},
		{"unknown assignment", 7, domain.EntryInput{AssignmentID: 99, Date: day("2024-03-04"), Hours: 1}, assigndomain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, entries, _, _ := newService()
			_, err := svc.BookHours(context.Background(), tt.user, tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, entries.saved)
		})
	}
}

func TestMonthOverview(t *testing.T) {
	svc, entries, assignments, _ := newService()
	assignments.bookable = []assigndomain.ProjectAssignment{assignments.byID[1], assignments.byID[3]}
	entries.entries = []domain.Entry{
		{AssignmentID: 1, Date: day("2024-02-01"), Hours: 8},
		{AssignmentID: 1, Date: day("2024-02-02"), Hours: 6},
		{AssignmentID: 3, Date: day("2024-02-02"), Hours: 2},
		{AssignmentID: 42, Date: day("2024-02-05"), Hours: 1},
	}

	ov, err := svc.MonthOverview(context.Background(), 7, day("2024-02-17"))
	require.NoError(t, err)

	assert.Equal(t, "2024-02", ov.Month)
	assert.Equal(t, daterange.ForMonth(day("2024-02-01")), assignments.gotR)
	assert.Equal(t, assignments.gotR, entries.gotR)

	require.Len(t, ov.Assignments, 2)
	assert.Equal(t, 14.0, ov.Assignments[0].Hours)
	assert.Equal(t, 2.0, ov.Assignments[1].Hours)
	assert.Equal(t, 16.0, ov.TotalHours)
	assert.Equal(t, 8.0, ov.DailyTotals["2024-02-02"])
}

func TestMonthOverview_Empty(t *testing.T) {
	svc, _, _, _ := newService()

	ov, err := svc.MonthOverview(context.Background(), 7, day("2024-02-17"))
	require.NoError(t, err)
	assert.NotNil(t, ov.Assignments)
	assert.Zero(t, ov.TotalHours)
}

func TestExportMonth(t *testing.T) {
	svc, entries, assignments, _ := newService()
	assignments.bookable = []assigndomain.ProjectAssignment{assignments.byID[1]}
	entries.entries = []domain.Entry{
		{AssignmentID: 1, Date: day("2024-02-02"), Hours: 6, Comment: "review"},
		{AssignmentID: 1, Date: day("2024-02-01"), Hours: 8},
	}

	var buf bytes.Buffer
	name, err := svc.ExportMonth(context.Background(), 7, day("2024-02-10"), &buf)
	require.NoError(t, err)
	assert.Equal(t, "timesheet_7_20240201-20240229.xlsx", name)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Timesheet 2024-02, Lovelace, Ada", title)

	hdr, _ := f.GetCellValue(sheet, "A4")
	assert.Equal(t, "Date", hdr)
	project, _ := f.GetCellValue(sheet, "B5")
	assert.Equal(t, "ENG Engine", project)
	comment, _ := f.GetCellValue(sheet, "E6")
	assert.Equal(t, "review", comment)
	total, _ := f.GetCellValue(sheet, "A7")
	assert.Equal(t, "Total", total)
}

func TestExportMonth_PropagatesErrors(t *testing.T) {
	svc := NewTimesheetService(&fakeEntries{}, errAssignments{}, &fakeStatus{}, nil)
	_, err := svc.ExportMonth(context.Background(), 7, day("2024-02-10"), &bytes.Buffer{})
	assert.EqualError(t, err, "boom")
}

type errAssignments struct{}

func (errAssignments) GetProjectAssignment(context.Context, int64) (assigndomain.ProjectAssignment, error) {
	return assigndomain.ProjectAssignment{}, errors.New("boom")
}

func (errAssignments) ListBookableForUser(context.Context, int64, daterange.Range) ([]assigndomain.ProjectAssignment, error) {
	return nil, errors.New("boom")
}
