package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
)

// ListParams drives paginated listing; Search matches username or email.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByEmailOrUsername returns any user holding either value.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// MarkEmailValidated sets the verification flag; it has no inverse.
	MarkEmailValidated(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, p ListParams) ([]entity.User, int, error)
}
