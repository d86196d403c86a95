package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

const userColumns = `id, first_name, last_name, age, email, username, password_hash, role, email_validated, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &u.Email, &u.Username,
		&u.PasswordHash, &role, &u.EmailValidated, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, first_name, last_name, age, email, username, password_hash, role, email_validated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, u.ID, u.FirstName, u.LastName, u.Age, u.Email, u.Username, u.PasswordHash, string(u.Role), u.EmailValidated)

	return mapErr("create user", row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) getOne(ctx context.Context, op, where string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user by id", `id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", `email = $1`, email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "get user by username", `username = $1`, username)
}

func (r *UserRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email or username", `email = $1 OR username = $2`, email, username)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, age = $3, email = $4, username = $5,
		    password_hash = $6, role = $7, updated_at = $8
		WHERE id = $9
	`, u.FirstName, u.LastName, u.Age, u.Email, u.Username, u.PasswordHash, string(u.Role), u.UpdatedAt, u.ID)
	if err != nil {
		return mapErr("update user", err)
	}
	if res.RowsAffected() == 0 {
		return mapErr("update user", pgx.ErrNoRows)
	}
	return nil
}

func (r *UserRepository) MarkEmailValidated(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `UPDATE users SET email_validated = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return mapErr("mark email validated", err)
	}
	if res.RowsAffected() == 0 {
		return mapErr("mark email validated", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes the row outright; memberships referencing it are left alone.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete user", err)
	}
	if res.RowsAffected() == 0 {
		return mapErr("delete user", pgx.ErrNoRows)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, p repository.ListParams) ([]entity.User, int, error) {
	pattern := "%" + p.Search + "%"

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username ILIKE $1 OR email ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, mapErr("count users", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1 OR email ILIKE $1
		ORDER BY username ASC
		LIMIT $2 OFFSET $3
	`, pattern, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return nil, 0, mapErr("list users", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0, p.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapErr("list users", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr("list users", err)
	}
	return users, total, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
