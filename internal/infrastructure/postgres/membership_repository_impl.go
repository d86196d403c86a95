package postgres

import (
	"context"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

// MembershipRepository writes straight to memberships. The table has no
// unique (user_id, project_id) index and no foreign keys, so repeated
// assignments produce separate rows.
type MembershipRepository struct {
	db DB
}

func NewMembershipRepository(db DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m *entity.Membership) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO memberships (id, user_id, project_id, access_level)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, m.ID, m.UserID, m.ProjectID, string(m.AccessLevel))
	return mapErr("create membership", row.Scan(&m.CreatedAt, &m.UpdatedAt))
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]entity.Membership, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, project_id, access_level, created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, mapErr("list memberships", err)
	}
	defer rows.Close()

	var out []entity.Membership
	for rows.Next() {
		var m entity.Membership
		var level string
		if err := rows.Scan(&m.ID, &m.UserID, &m.ProjectID, &level, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, mapErr("list memberships", err)
		}
		m.AccessLevel = entity.AccessLevel(level)
		out = append(out, m)
	}
	return out, mapErr("list memberships", rows.Err())
}

var _ repository.MembershipRepository = (*MembershipRepository)(nil)
