// Package memory holds map-backed repositories with the same constraint
// behavior as the Postgres schema: unique email and username on users, no
// constraints at all on memberships.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

type Store struct {
	mu          sync.RWMutex
	users       map[string]entity.User
	projects    map[string]entity.Project
	memberships []entity.Membership
}

func NewStore() *Store {
	return &Store{
		users:    map[string]entity.User{},
		projects: map[string]entity.Project{},
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Projects() *ProjectRepository       { return &ProjectRepository{s: s} }
func (s *Store) Memberships() *MembershipRepository { return &MembershipRepository{s: s} }

type UserRepository struct{ s *Store }

// conflict must be called with the lock held.
func (s *Store) conflict(u *entity.User) error {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return fmt.Errorf("email %q: %w", u.Email, repository.ErrDuplicate)
		}
		if other.Username == u.Username {
			return fmt.Errorf("username %q: %w", u.Username, repository.ErrDuplicate)
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.conflict(u); err != nil {
		return err
	}
	if _, ok := r.s.users[u.ID]; ok {
		return fmt.Errorf("id %q: %w", u.ID, repository.ErrDuplicate)
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) GetByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email || u.Username == username })
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := r.s.conflict(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) MarkEmailValidated(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailValidated = true
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, p repository.ListParams) ([]entity.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(p.Search)
	var matched []entity.User
	for _, u := range r.s.users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	start := (p.Page - 1) * p.Limit
	if start < 0 || start >= total {
		return []entity.User{}, total, nil
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type MembershipRepository struct{ s *Store }

func (r *MembershipRepository) Create(_ context.Context, m *entity.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	r.s.memberships = append(r.s.memberships, *m)
	return nil
}

func (r *MembershipRepository) ListByUser(_ context.Context, userID string) ([]entity.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Membership
	for _, m := range r.s.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository       = (*UserRepository)(nil)
	_ repository.ProjectRepository    = (*ProjectRepository)(nil)
	_ repository.MembershipRepository = (*MembershipRepository)(nil)
)
