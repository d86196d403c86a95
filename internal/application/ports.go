package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
)

// PasswordHasher is implemented by helpers.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, digest string) (bool, error)
}

// TokenIssuer is implemented by helpers.JWTManager.
type TokenIssuer interface {
	Sign(c helpers.Claims, ttl time.Duration) (string, time.Time, error)
	Verify(token string, kind helpers.TokenKind) (*helpers.Claims, error)
}

// Notifier delivers an outbound email job. Delivery is synchronous from the
// caller's point of view: a nil error means the job was accepted.
type Notifier interface {
	Notify(ctx context.Context, job mailer.EmailJob) error
}

// UserIndexer mirrors users into a search index. Search returns matching user IDs
// ordered by relevance.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}
