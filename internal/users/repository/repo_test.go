package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gorgija/ehour/internal/storage/postgres"
	"github.com/Gorgija/ehour/internal/users/domain"
)

var userColumns = []string{
	"id", "username", "first_name", "last_name", "email", "password_hash", "active", "department_id", "created_at", "updated_at",
}

func setupUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := postgres.OpenGorm(db, nil)
	require.NoError(t, err)
	return NewUserRepository(gdb), mock
}

func expectUserLoad(mock sqlmock.Sqlmock, id int64, deptID int64) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id, "ada", "Ada", "Lovelace", "ada@example.com", "hash", true, deptID, now, now))
	mock.ExpectQuery(`SELECT \* FROM "user_departments" WHERE "user_departments"."id" = \$1`).
		WithArgs(deptID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "created_at"}).AddRow(deptID, "ENG", "Engineering", now))
	mock.ExpectQuery(`SELECT \* FROM "user_to_userrole" WHERE "user_to_userrole"."user_id" = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "role"}).
			AddRow(id, domain.RoleConsultant).
			AddRow(id, domain.RoleAdmin))
}

func TestUserRepository_FindByID(t *testing.T) {
	repo, mock := setupUserRepo(t)
	expectUserLoad(mock, 3, 7)

	u, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Lovelace, Ada", u.FullName())
	require.NotNil(t, u.Department)
	assert.Equal(t, "ENG", u.Department.Code)
	assert.ElementsMatch(t, []string{domain.RoleConsultant, domain.RoleAdmin}, u.Roles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListActiveOnly(t *testing.T) {
	repo, mock := setupUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE active = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "bob", "Bob", "Builder", "", "", true, nil, now, now))
	mock.ExpectQuery(`SELECT \* FROM "user_to_userrole" WHERE "user_to_userrole"."user_id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "role"}))

	users, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].Department)
	assert.Empty(t, users[0].Roles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := setupUserRepo(t)
	dept := int64(7)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO user_to_userrole \(user_id, role\) SELECT \$1, UNNEST\(\$2::text\[\]\)`).
		WithArgs(int64(3), `{"ROLE_CONSULTANT","ROLE_ADMIN"}`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectUserLoad(mock, 3, 7)

	u, err := repo.Create(context.Background(), domain.UserInput{
		Username: "ada", FirstName: "Ada", LastName: "Lovelace", Active: true,
		DepartmentID: &dept, Roles: []string{domain.RoleConsultant, domain.RoleAdmin},
	}, "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), domain.UserInput{Username: "ada"}, "hash")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 5, domain.UserInput{Username: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_ReplacesRoles(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM user_to_userrole WHERE user_id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_to_userrole`).
		WithArgs(int64(3), `{"ROLE_CONSULTANT","ROLE_ADMIN"}`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectUserLoad(mock, 3, 7)

	_, err := repo.Update(context.Background(), 3, domain.UserInput{
		Username: "ada", Roles: []string{domain.RoleConsultant, domain.RoleAdmin},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ChangePassword(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec(`UPDATE "users" SET "password_hash"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ChangePassword(context.Background(), 3, "new-hash"))

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.ChangePassword(context.Background(), 4, "new-hash"), domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := setupUserRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, 3))

	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 4), domain.ErrNotFound)

	mock.ExpectExec(`DELETE FROM "users"`).WillReturnError(&pq.Error{Code: "23503"})
	assert.ErrorIs(t, repo.Delete(ctx, 5), domain.ErrNotDeletable)

	mock.ExpectExec(`DELETE FROM "users"`).WillReturnError(errors.New("conn reset"))
	err := repo.Delete(ctx, 6)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotDeletable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Departments(t *testing.T) {
	repo, mock := setupUserRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO "user_departments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	d, err := repo.CreateDepartment(ctx, domain.Department{Code: "OPS", Name: "Operations"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), d.ID)

	mock.ExpectQuery(`INSERT INTO "user_departments"`).WillReturnError(&pq.Error{Code: "23505"})
	_, err = repo.CreateDepartment(ctx, domain.Department{Code: "OPS", Name: "Operations"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	mock.ExpectQuery(`SELECT \* FROM "user_departments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "created_at"}).
			AddRow(1, "ENG", "Engineering", time.Now()).
			AddRow(9, "OPS", "Operations", time.Now()))
	depts, err := repo.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListRoles(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "user_roles" ORDER BY role`).
		WillReturnRows(sqlmock.NewRows([]string{"role", "name"}).
			AddRow(domain.RoleAdmin, "Administrator").
			AddRow(domain.RoleConsultant, "Consultant"))

	roles, err := repo.ListRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Role{Role: domain.RoleAdmin, Name: "Administrator"}, roles[0])
	require.NoError(t, mock.ExpectationsWereMet())
}
