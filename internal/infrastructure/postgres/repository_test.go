package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

var userCols = []string{"id", "first_name", "last_name", "age", "email", "username", "password_hash", "role", "email_validated", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	u := &entity.User{Base: entity.Base{ID: "u-1"}, FirstName: "Alice", LastName: "Liddell", Age: 30,
		Email: "a@x.com", Username: "alice", PasswordHash: "$2a$hash", Role: entity.RoleBasic}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u-1", "Alice", "Liddell", 30, "a@x.com", "alice", "$2a$hash", "BASIC", false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Base: entity.Base{ID: "u-1"}})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "Alice", "Liddell", 30, "a@x.com", "alice", "$2a$hash", "ADMIN", true, now, now))

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.True(t, u.EmailValidated)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_GetByEmailOrUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1 OR username = \$2`).
		WithArgs("b@x.com", "alice").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "Alice", "Liddell", 30, "a@x.com", "alice", "$2a$hash", "BASIC", false, now, now))

	u, err := repo.GetByEmailOrUsername(context.Background(), "b@x.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestUserRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	u := &entity.User{Base: entity.Base{ID: "u-1"}, FirstName: "Ann", Email: "a@x.com", Username: "alice", Role: entity.RoleBasic}

	mock.ExpectExec(`UPDATE users`).
		WithArgs("Ann", "", 0, "a@x.com", "alice", "", "BASIC", pgxmock.AnyArg(), "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), u))
	assert.False(t, u.UpdatedAt.IsZero())
}

func TestUserRepository_Update_Conflict(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Update(context.Background(), &entity.User{Base: entity.Base{ID: "u-1"}})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_MarkEmailValidated(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET email_validated = TRUE`).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.MarkEmailValidated(context.Background(), "u-1"))
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "u-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1"), repository.ErrNotFound)
}

func TestUserRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("%ali%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`(?s)SELECT .+FROM users\s+WHERE username ILIKE \$1 OR email ILIKE \$1\s+ORDER BY username ASC`).
		WithArgs("%ali%", 5, 5).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "Alice", "L", 30, "a@x.com", "alice", "h", "BASIC", false, now, now).
			AddRow("u-2", "Alina", "M", 22, "b@x.com", "alina", "h", "BASIC", false, now, now))

	users, total, err := repo.List(context.Background(), repository.ListParams{Page: 2, Limit: 5, Search: "ali"})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alina", users[1].Username)
}

func TestUserRepository_DBErrorIsWrapped(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	dbErr := errors.New("connection reset")

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnError(dbErr)

	_, err := repo.GetByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestMembershipRepository_CreateAllowsRepeats(t *testing.T) {
	mock := newMock(t)
	repo := NewMembershipRepository(mock)
	now := time.Now()

	for _, id := range []string{"m-1", "m-2"} {
		mock.ExpectQuery(`INSERT INTO memberships`).
			WithArgs(id, "u-1", "p-1", "OWNER").
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	}

	for _, id := range []string{"m-1", "m-2"} {
		m := &entity.Membership{Base: entity.Base{ID: id}, UserID: "u-1", ProjectID: "p-1", AccessLevel: entity.AccessOwner}
		require.NoError(t, repo.Create(context.Background(), m))
	}
}

func TestMembershipRepository_ConstraintViolation(t *testing.T) {
	mock := newMock(t)
	repo := NewMembershipRepository(mock)

	mock.ExpectQuery(`INSERT INTO memberships`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &entity.Membership{Base: entity.Base{ID: "m-1"}})
	assert.ErrorIs(t, err, repository.ErrConstraint)
}

func TestMembershipRepository_ListByUser(t *testing.T) {
	mock := newMock(t)
	repo := NewMembershipRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .+FROM memberships\s+WHERE user_id = \$1`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "project_id", "access_level", "created_at", "updated_at"}).
			AddRow("m-1", "u-1", "p-1", "DEVELOPER", now, now))

	ms, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, entity.AccessDeveloper, ms[0].AccessLevel)
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs("p-1", "Apollo", "moon").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery(`(?s)SELECT .+FROM projects\s+WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow("p-1", "Apollo", "moon", now, now))

	require.NoError(t, repo.Create(context.Background(), &entity.Project{Base: entity.Base{ID: "p-1"}, Name: "Apollo", Description: "moon"}))

	p, err := repo.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Apollo", p.Name)
}
