package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
}

// MembershipRepository persists user<->project join records. Implementations
// must not deduplicate or check that either side exists.
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.Membership) error
	ListByUser(ctx context.Context, userID string) ([]entity.Membership, error)
}
