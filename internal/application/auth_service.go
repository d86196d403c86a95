package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

// Messages returned to clients. Login deliberately distinguishes an unknown
// email from a wrong password.
const (
	MsgUserExists         = "user already exists"
	MsgEmailNotRegistered = "email not registered"
	MsgIncorrectPassword  = "incorrect password"
	MsgUserNotFound       = "user not found"
	MsgInvalidToken       = "invalid or expired token"
	MsgCreateUserFailed   = "error creating user"
	MsgSendEmailFailed    = "error sending validation email"
	MsgValidateFailed     = "error validating email"
)

type AuthConfig struct {
	SessionTTL time.Duration
	VerifyTTL  time.Duration
	// VerifyURL is the link prefix the verification token is appended to.
	VerifyURL string
	Brand     mailtpl.Brand
}

// AuthResult is returned by every operation that issues a session token.
type AuthResult struct {
	User        *entity.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type AuthService struct {
	Users    repo.UserRepository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Notifier Notifier
	Indexer  UserIndexer
	Logger   *logrus.Logger
	Cfg      AuthConfig
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, notifier Notifier, logger *logrus.Logger, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.VerifyTTL <= 0 {
		cfg.VerifyTTL = time.Hour
	}
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, Notifier: notifier, Logger: logger, Cfg: cfg}
}

// WithIndexer enables search indexing of newly registered users.
func (s *AuthService) WithIndexer(ix UserIndexer) *AuthService {
	s.Indexer = ix
	return s
}

// Register creates an unverified account, emails a verification link and
// opens a session. A notification failure fails the call but the account stays.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Users.GetByEmailOrUsername(ctx, in.Email, in.Username)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.Conflict(MsgUserExists)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, s.internal(err, MsgCreateUserFailed, "register: lookup failed")
	}

	digest, err := s.Hasher.Hash(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, passwordTooLong(err)
	}
	if err != nil {
		return nil, s.internal(err, MsgCreateUserFailed, "register: hash failed")
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
		return nil, s.internal(err, MsgCreateUserFailed, "register: create failed")
	}
	metricRegistrations.Add(1)
	indexUser(ctx, s.Indexer, s.Logger, u)

	if err := s.sendVerification(ctx, u, in); err != nil {
		return nil, err
	}

	return s.issueSession(u)
}

func (s *AuthService) sendVerification(ctx context.Context, u *entity.User, in RegisterInput) error {
	token, _, err := s.Tokens.Sign(helpers.EmailVerificationClaims(u.Email), s.Cfg.VerifyTTL)
	if err != nil {
		return s.internal(err, MsgSendEmailFailed, "register: sign verification token failed")
	}
	data := mailtpl.NewVerifyEmailData(s.Cfg.Brand, u.FirstName, u.Email, s.Cfg.VerifyURL+token,
		mailtpl.WithUsername(u.Username),
		mailtpl.WithExpiresIn(s.Cfg.VerifyTTL),
		mailtpl.WithIP(in.ClientIP),
		mailtpl.WithUserAgent(in.UserAgent),
	)
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.VerifyEmail, Data: data}
	if err := s.Notifier.Notify(ctx, job); err != nil {
		metricNotifyFailures.Add(1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("verification email not sent")
		}
		return apperror.Internal(MsgSendEmailFailed, err)
	}
	return nil
}

// Login checks credentials and issues a fresh session token. Unverified
// accounts may log in.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metricLoginsFailed.Add(1)
			return nil, apperror.Unauthorized(MsgEmailNotRegistered)
		}
		return nil, s.internal(err, "error logging in", "login: lookup failed")
	}
	ok, err := s.Hasher.Compare(in.Password, u.PasswordHash)
	if err != nil {
		return nil, s.internal(err, "error logging in", "login: stored hash unreadable")
	}
	if !ok {
		metricLoginsFailed.Add(1)
		return nil, apperror.Unauthorized(MsgIncorrectPassword)
	}
	metricLoginsOK.Add(1)
	return s.issueSession(u)
}

// CheckAuthStatus reloads the session subject and rotates its token.
func (s *AuthService) CheckAuthStatus(ctx context.Context, userID string) (*AuthResult, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Unauthorized(MsgUserNotFound)
		}
		return nil, s.internal(err, "error renewing token", "check-auth-status: lookup failed")
	}
	return s.issueSession(u)
}

// ValidateEmail marks the account bound to token as verified. Replaying a
// still-valid token succeeds again without changing anything.
func (s *AuthService) ValidateEmail(ctx context.Context, token string) error {
	claims, err := s.Tokens.Verify(token, helpers.KindEmailVerification)
	if err != nil {
		return apperror.Unauthorized(MsgInvalidToken).Wrap(err)
	}
	u, err := s.Users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.BadRequest(MsgUserNotFound)
		}
		return s.internal(err, MsgValidateFailed, "validate-email: lookup failed")
	}
	if err := s.Users.MarkEmailValidated(ctx, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.BadRequest(MsgUserNotFound)
		}
		return s.internal(err, MsgValidateFailed, "validate-email: update failed")
	}
	if u.MarkEmailValidated() {
		metricEmailsValidated.Add(1)
		indexUser(ctx, s.Indexer, s.Logger, u)
	}
	return nil
}

// Authenticate resolves a bearer token to the user ID it was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.Tokens.Verify(token, helpers.KindSession)
	if err != nil {
		return "", apperror.Unauthorized(MsgInvalidToken).Wrap(err)
	}
	return claims.UserID(), nil
}

func (s *AuthService) issueSession(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Sign(helpers.SessionClaims(u.ID), s.Cfg.SessionTTL)
	if err != nil {
		return nil, s.internal(err, "error issuing token", "sign session token failed")
	}
	return &AuthResult{User: u, AccessToken: token, ExpiresAt: exp}, nil
}

func (s *AuthService) internal(err error, msg, logMsg string) error {
	if s.Logger != nil {
		s.Logger.WithError(err).Error(logMsg)
	}
	return apperror.Internal(msg, err)
}
