package application

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

const MsgUserInUse = "email or username already in use"

type UserService struct {
	Users       repo.UserRepository
	Memberships repo.MembershipRepository
	Hasher      PasswordHasher
	Indexer     UserIndexer
	Logger      *logrus.Logger
	// BaseURL prefixes the next/prev links of paginated listings, e.g. "http://host/api".
	BaseURL string
}

func NewUserService(users repo.UserRepository, memberships repo.MembershipRepository, hasher PasswordHasher, indexer UserIndexer, logger *logrus.Logger, baseURL string) *UserService {
	return &UserService{
		Users:       users,
		Memberships: memberships,
		Hasher:      hasher,
		Indexer:     indexer,
		Logger:      logger,
		BaseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// UserDetail is a user together with its project memberships.
type UserDetail struct {
	*entity.User
	Memberships []entity.Membership `json:"memberships"`
}

type PageInfo struct {
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int     `json:"total"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

type UserPage struct {
	Info  PageInfo      `json:"info"`
	Users []entity.User `json:"users"`
}

// Create adds an account directly, without a verification email or session.
func (s *UserService) Create(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.Users.GetByEmailOrUsername(ctx, in.Email, in.Username)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.Conflict(MsgUserExists)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, s.internal(err, MsgCreateUserFailed, "create user: lookup failed")
	}
	digest, err := s.Hasher.Hash(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, passwordTooLong(err)
	}
	if err != nil {
		return nil, s.internal(err, MsgCreateUserFailed, "create user: hash failed")
	}
	role, _ := entity.ParseRole(in.Role)
	u := &entity.User{
		Base:         entity.NewBase(time.Now()),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Age:          in.Age,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: digest,
		Role:         role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperror.Conflict(MsgUserExists).Wrap(err)
		}
		return nil, s.internal(err, MsgCreateUserFailed, "create user: insert failed")
	}
	indexUser(ctx, s.Indexer, s.Logger, u)
	return u, nil
}

// Get returns the user with its memberships.
func (s *UserService) Get(ctx context.Context, id string) (*UserDetail, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	ms, err := s.Memberships.ListByUser(ctx, id)
	if err != nil {
		return nil, s.internal(err, "error fetching user", "get user: memberships failed")
	}
	if ms == nil {
		ms = []entity.Membership{}
	}
	return &UserDetail{User: u, Memberships: ms}, nil
}

func (s *UserService) getUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("user not found with id: " + id)
		}
		return nil, s.internal(err, "error fetching user", "get user failed")
	}
	return u, nil
}

// List pages through users ordered by username.
func (s *UserService) List(ctx context.Context, in ListUsersInput) (*UserPage, error) {
	in = in.normalize()
	users, total, err := s.Users.List(ctx, repo.ListParams{Page: in.Page, Limit: in.Limit, Search: in.Search})
	if err != nil {
		return nil, s.internal(err, "error listing users", "list users failed")
	}
	if users == nil {
		users = []entity.User{}
	}
	info := PageInfo{Page: in.Page, Limit: in.Limit, Total: total}
	if in.Page*in.Limit < total {
		info.Next = s.pageLink(in.Page+1, in)
	}
	if in.Page > 1 {
		info.Prev = s.pageLink(in.Page-1, in)
	}
	return &UserPage{Info: info, Users: users}, nil
}

func (s *UserService) pageLink(page int, in ListUsersInput) *string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(in.Limit))
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	link := s.BaseURL + "/users?" + q.Encode()
	return &link
}

// Update applies a partial change. A supplied password is stored as a new digest.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := entity.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
		Email:     in.Email,
		Username:  in.Username,
	}
	if in.Role != nil {
		role, _ := entity.ParseRole(*in.Role)
		patch.Role = &role
	}
	if in.Password != nil {
		digest, err := s.Hasher.Hash(*in.Password)
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, passwordTooLong(err)
		}
		if err != nil {
			return nil, s.internal(err, "error updating user", "update user: hash failed")
		}
		patch.PasswordHash = &digest
	}
	if patch.Empty() {
		return u, nil
	}
	patch.Apply(u)

	if err := s.Users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, apperror.Conflict(MsgUserInUse).Wrap(err)
		case errors.Is(err, repo.ErrNotFound):
			return nil, apperror.NotFound("user not found with id: " + id)
		}
		return nil, s.internal(err, "error updating user", "update user failed")
	}
	indexUser(ctx, s.Indexer, s.Logger, u)
	return u, nil
}

// Delete removes the account. Memberships referencing it are left in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("user not found or already deleted")
		}
		return s.internal(err, "error deleting user", "delete user failed")
	}
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("search index remove failed")
		}
	}
	return nil
}

// Search resolves a free-text query through the search index and loads the
// matching users from the store. Users deleted since indexing are skipped.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]entity.User, error) {
	out := []entity.User{}
	if s.Indexer == nil || strings.TrimSpace(q) == "" {
		return out, nil
	}
	switch {
	case size <= 0:
		size = 10
	case size > 50:
		size = 50
	}
	ids, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, s.internal(err, "error searching users", "search users failed")
	}
	for _, id := range ids {
		u, err := s.Users.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, s.internal(err, "error searching users", "search users: load failed")
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserService) internal(err error, msg, logMsg string) error {
	if s.Logger != nil {
		s.Logger.WithError(err).Error(logMsg)
	}
	return apperror.Internal(msg, err)
}

// indexUser is best effort: the store is the source of truth.
func indexUser(ctx context.Context, ix UserIndexer, logger *logrus.Logger, u *entity.User) {
	if ix == nil {
		return
	}
	if err := ix.Index(ctx, u); err != nil && logger != nil {
		logger.WithError(err).WithField("user_id", u.ID).Warn("search index update failed")
	}
}
