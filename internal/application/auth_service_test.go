package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

func TestRegister_CreatesUnverifiedUserAndSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, entity.RoleBasic, res.User.Role)
	assert.False(t, res.User.EmailValidated)
	assert.NotEqual(t, "Password123!", res.User.PasswordHash)

	claims, err := f.tokens.Verify(res.AccessToken, helpers.KindSession)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID())

	require.Len(t, f.notifier.jobs, 1)
	job := f.notifier.jobs[0]
	assert.Equal(t, "juan@example.com", job.To)
	assert.Equal(t, mailtpl.VerifyEmail, job.Template)
	assert.Equal(t, "1 hour", job.Data["ExpiresIn"])
	for _, v := range job.Data {
		assert.NotEqual(t, "Password123!", v)
	}

	stored, err := f.store.Users().GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, res.User.PasswordHash, stored.PasswordHash)
	assert.Contains(t, f.indexer.docs, res.User.ID)
}

func TestRegister_Conflict(t *testing.T) {
	ctx := context.Background()

	sameEmail := validRegister()
	sameEmail.Username = "other"
	sameEmail.Password = "Different456!"
	sameUsername := validRegister()
	sameUsername.Email = "other@example.com"
	sameUsername.Password = "Different456!"

	tests := []struct {
		name string
		dup  RegisterInput
	}{
		{name: "same email", dup: sameEmail},
		{name: "same username", dup: sameUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			first, err := f.auth.Register(ctx, validRegister())
			require.NoError(t, err)
			before, err := f.store.Users().GetByEmail(ctx, first.User.Email)
			require.NoError(t, err)

			_, err = f.auth.Register(ctx, tt.dup)
			assert.ErrorIs(t, err, apperror.ErrConflict)

			after, err := f.store.Users().GetByEmail(ctx, first.User.Email)
			require.NoError(t, err)
			assert.Equal(t, before.ID, after.ID)
			assert.Equal(t, before.Username, after.Username)
			assert.Equal(t, before.PasswordHash, after.PasswordHash)
			assert.Equal(t, before.EmailValidated, after.EmailValidated)
			assert.Len(t, f.notifier.jobs, 1)

			_, err = f.store.Users().GetByEmail(ctx, "other@example.com")
			assert.Error(t, err)
		})
	}
}

func TestRegister_PasswordOver72Bytes(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "ascii", password: strings.Repeat("a", 80)},
		{name: "multibyte under the rune limit", password: strings.Repeat("€", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validRegister()
			in.Password = tt.password

			_, err := f.auth.Register(context.Background(), in)

			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, "password", apperror.From(err, "").Fields[0].Field)
			assert.Empty(t, f.notifier.jobs)
		})
	}
}

type overlongHasher struct{ PasswordHasher }

func (overlongHasher) Hash(string) (string, error) { return "", helpers.ErrPasswordTooLong }

func TestRegister_HasherLengthErrorIsValidation(t *testing.T) {
	f := newFixture(t)
	f.auth.Hasher = overlongHasher{}

	_, err := f.auth.Register(context.Background(), validRegister())

	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NotErrorIs(t, err, apperror.ErrInternal)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	in := validRegister()
	in.Email = "not-an-email"
	in.Password = "123"
	in.Role = "ROOT"

	_, err := f.auth.Register(context.Background(), in)
	require.ErrorIs(t, err, apperror.ErrValidation)

	var ae *apperror.Error
	require.True(t, errors.As(err, &ae))
	fields := map[string]bool{}
	for _, fe := range ae.Fields {
		fields[fe.Field] = true
	}
	assert.Equal(t, map[string]bool{"email": true, "password": true, "role": true}, fields)
}

func TestRegister_NotifierFailureKeepsUser(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("queue down")
	ctx := context.Background()

	_, err := f.auth.Register(ctx, validRegister())
	require.ErrorIs(t, err, apperror.ErrInternal)
	assert.NotContains(t, err.(*apperror.Error).Message, "queue down")

	u, err := f.store.Users().GetByEmail(ctx, "juan@example.com")
	require.NoError(t, err)
	assert.False(t, u.EmailValidated)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, validRegister())
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      LoginInput
		wantMsg string
	}{
		{name: "unknown email", in: LoginInput{Email: "ghost@example.com", Password: "Password123!"}, wantMsg: MsgEmailNotRegistered},
		{name: "wrong password", in: LoginInput{Email: "juan@example.com", Password: "Wrong123!"}, wantMsg: MsgIncorrectPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, tt.in)
			require.ErrorIs(t, err, apperror.ErrUnauthorized)
			assert.Equal(t, tt.wantMsg, err.(*apperror.Error).Message)
		})
	}

	res, err := f.auth.Login(ctx, LoginInput{Email: "juan@example.com", Password: "Password123!"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.False(t, res.User.EmailValidated)
	assert.NotEqual(t, reg.AccessToken, res.AccessToken)
}

func TestCheckAuthStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, validRegister())
	require.NoError(t, err)

	uid, err := f.auth.Authenticate(reg.AccessToken)
	require.NoError(t, err)

	res, err := f.auth.CheckAuthStatus(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEqual(t, reg.AccessToken, res.AccessToken)

	require.NoError(t, f.users.Delete(ctx, uid))
	_, err = f.auth.CheckAuthStatus(ctx, uid)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthenticate_RejectsVerificationToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = f.auth.Authenticate(f.notifier.lastToken(t))
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.ErrorIs(t, err, helpers.ErrTokenKind)
}

func TestValidateEmail_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, validRegister())
	require.NoError(t, err)
	token := f.notifier.lastToken(t)

	require.NoError(t, f.auth.ValidateEmail(ctx, token))
	u, err := f.store.Users().GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, u.EmailValidated)

	require.NoError(t, f.auth.ValidateEmail(ctx, token))
	u, err = f.store.Users().GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, u.EmailValidated)
}

func TestValidateEmail_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, validRegister())
	require.NoError(t, err)

	err = f.auth.ValidateEmail(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	err = f.auth.ValidateEmail(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	expired, _, err := helpers.NewJWTManager("test-secret").
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Sign(helpers.EmailVerificationClaims("juan@example.com"), time.Hour)
	require.NoError(t, err)
	err = f.auth.ValidateEmail(ctx, expired)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.ErrorIs(t, err, helpers.ErrTokenExpired)

	orphan, _, err := f.tokens.Sign(helpers.EmailVerificationClaims("nobody@example.com"), time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, f.auth.ValidateEmail(ctx, orphan), apperror.ErrBadRequest)
}
