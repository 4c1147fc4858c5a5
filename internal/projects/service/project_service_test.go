package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/projects/domain"
)

type fakeRepo struct {
	projects map[int64]domain.Project
	created  []domain.ProjectInput
	deleted  []int64
}

func (f *fakeRepo) List(_ context.Context, activeOnly bool) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		if !activeOnly || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Create(_ context.Context, in domain.ProjectInput) (domain.Project, error) {
	f.created = append(f.created, in)
	return domain.Project{ID: 50, Code: in.Code, Name: in.Name}, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, in domain.ProjectInput) (domain.Project, error) {
	if _, ok := f.projects[id]; !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return domain.Project{ID: id, Code: in.Code, Name: in.Name}, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAssignments map[int64][]int64

func (f fakeAssignments) IDsForProject(_ context.Context, id int64) ([]int64, error) {
	return f[id], nil
}

type fakeHours struct {
	booked map[int64]float64
	calls  [][]int64
	err    error
}

func (f *fakeHours) CumulatedHoursForAssignments(_ context.Context, ids []int64) ([]assigndomain.AssignmentHours, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	var out []assigndomain.AssignmentHours
	for _, id := range ids {
		if h := f.booked[id]; h > 0 {
			out = append(out, assigndomain.AssignmentHours{AssignmentID: id, Hours: h})
		}
	}
	return out, nil
}

func newService(hours *fakeHours) (*ProjectService, *fakeRepo) {
	repo := &fakeRepo{projects: map[int64]domain.Project{
		1: {ID: 1, Code: "ENG", Name: "Engine", Active: true},
		2: {ID: 2, Code: "OLD", Name: "Legacy", Active: false},
	}}
	assignments := fakeAssignments{1: {10, 11, 12}}
	return NewProjectService(repo, assignments, hours, nil), repo
}

func TestProjects_HideInactive(t *testing.T) {
	svc, _ := newService(&fakeHours{})

	all, err := svc.Projects(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.Projects(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestProjectAndCheckDeletability_OneBatchedCall(t *testing.T) {
	hours := &fakeHours{booked: map[int64]float64{12: 3}}
	svc, _ := newService(hours)

	p, err := svc.ProjectAndCheckDeletability(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, p.Deletable)
	require.Len(t, hours.calls, 1)
	assert.Equal(t, []int64{10, 11, 12}, hours.calls[0])

	p, err = svc.ProjectAndCheckDeletability(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, p.Deletable)

	_, err = svc.ProjectAndCheckDeletability(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectAndCheckDeletability_StoreError(t *testing.T) {
	boom := errors.New("boom")
	svc, _ := newService(&fakeHours{err: boom})

	_, err := svc.ProjectAndCheckDeletability(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestCreateProject(t *testing.T) {
	svc, repo := newService(&fakeHours{})

	p, err := svc.CreateProject(context.Background(), domain.ProjectInput{Code: " eng2 ", Name: " Engine 2 "})
	require.NoError(t, err)
	assert.Equal(t, "ENG2", p.Code)
	assert.Equal(t, "Engine 2", repo.created[0].Name)

	_, err = svc.CreateProject(context.Background(), domain.ProjectInput{Name: "Generated"})
	require.NoError(t, err)
	assert.Empty(t, repo.created[1].Code)

	_, err = svc.CreateProject(context.Background(), domain.ProjectInput{Code: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateProject(context.Background(), domain.ProjectInput{Code: "A B", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProject_RequiresCode(t *testing.T) {
	svc, _ := newService(&fakeHours{})

	_, err := svc.UpdateProject(context.Background(), 1, domain.ProjectInput{Name: "Engine"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := svc.UpdateProject(context.Background(), 1, domain.ProjectInput{Code: "eng", Name: "Engine"})
	require.NoError(t, err)
	assert.Equal(t, "ENG", p.Code)
}

func TestDeleteProject(t *testing.T) {
	svc, repo := newService(&fakeHours{booked: map[int64]float64{10: 1}})

	assert.ErrorIs(t, svc.DeleteProject(context.Background(), 1), domain.ErrNotDeletable)
	require.NoError(t, svc.DeleteProject(context.Background(), 2))
	assert.Equal(t, []int64{2}, repo.deleted)
}
