package db

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/reference"
	userdomain "github.com/Gorgija/ehour/internal/users/domain"
)

type call struct {
	sql  string
	args []any
}

type recordingExecer struct {
	calls  []call
	failOn string
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.calls = append(r.calls, call{sql: sql, args: args})
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, assert.AnError
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestSchemaCoversEveryTable(t *testing.T) {
	for _, table := range []string{
		"user_departments", "user_roles", "users", "user_to_userrole", "projects",
		"project_assignment_types", "project_assignments", "timesheet_entries", "audit",
	} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestMigrate(t *testing.T) {
	ex := &recordingExecer{}
	require.NoError(t, migrate(context.Background(), ex))
	require.Len(t, ex.calls, 1)
	assert.Equal(t, schemaSQL, ex.calls[0].sql)
	assert.Empty(t, ex.calls[0].args)
}

func TestSeed(t *testing.T) {
	ex := &recordingExecer{}
	data := reference.Data{
		Roles: []userdomain.Role{{Role: userdomain.RoleAdmin, Name: "Administrator"}},
		AssignmentTypes: []assigndomain.ProjectAssignmentType{
			{ID: 1, Code: assigndomain.TypeDate, Name: "Date"},
			{ID: 2, Code: assigndomain.TypeFixed, Name: "Fixed"},
		},
	}

	require.NoError(t, seed(context.Background(), ex, data))
	require.Len(t, ex.calls, 3)
	assert.Contains(t, ex.calls[0].sql, "INSERT INTO user_roles")
	assert.Equal(t, []any{userdomain.RoleAdmin, "Administrator"}, ex.calls[0].args)
	assert.Equal(t, []any{2, assigndomain.TypeFixed, "Fixed"}, ex.calls[2].args)
}

func TestSeed_StopsOnError(t *testing.T) {
	ex := &recordingExecer{failOn: "user_roles"}
	data := reference.Data{
		Roles:           []userdomain.Role{{Role: "ROLE_X", Name: "X"}},
		AssignmentTypes: []assigndomain.ProjectAssignmentType{{ID: 1, Code: assigndomain.TypeDate}},
	}

	err := seed(context.Background(), ex, data)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "seed role ROLE_X")
	assert.Len(t, ex.calls, 1)
}
