package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

func newUser(id, email, username string) *entity.User {
	return &entity.User{Base: entity.Base{ID: id}, Email: email, Username: username, Role: entity.RoleBasic}
}

func TestUserRepository_UniqueEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Users()

	require.NoError(t, repo.Create(ctx, newUser("1", "a@x.com", "alice")))

	assert.ErrorIs(t, repo.Create(ctx, newUser("2", "a@x.com", "other")), repository.ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, newUser("3", "b@x.com", "alice")), repository.ErrDuplicate)

	require.NoError(t, repo.Create(ctx, newUser("4", "b@x.com", "bob")))
	bob, err := repo.GetByID(ctx, "4")
	require.NoError(t, err)
	bob.Email = "a@x.com"
	assert.ErrorIs(t, repo.Update(ctx, bob), repository.ErrDuplicate)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Users()
	require.NoError(t, repo.Create(ctx, newUser("1", "a@x.com", "alice")))

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	u.FirstName = "changed"

	again, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, again.FirstName)
}

func TestUserRepository_ListPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Users()
	for i, name := range []string{"carol", "alice", "bob", "alina"} {
		require.NoError(t, repo.Create(ctx, newUser(string(rune('a'+i)), name+"@x.com", name)))
	}

	page, total, err := repo.List(ctx, repository.ListParams{Page: 1, Limit: 2, Search: "ali"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 2)
	assert.Equal(t, "alice", page[0].Username)

	page, total, err = repo.List(ctx, repository.ListParams{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, page)
}

func TestMembershipRepository_NoDedupNoCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users, members := store.Users(), store.Memberships()
	require.NoError(t, users.Create(ctx, newUser("u1", "a@x.com", "alice")))

	for _, id := range []string{"m1", "m2"} {
		require.NoError(t, members.Create(ctx, &entity.Membership{Base: entity.Base{ID: id}, UserID: "u1", ProjectID: "p1", AccessLevel: entity.AccessOwner}))
	}
	require.NoError(t, users.Delete(ctx, "u1"))

	ms, err := members.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, ms, 2)
	assert.ErrorIs(t, users.Delete(ctx, "u1"), repository.ErrNotFound)
}
