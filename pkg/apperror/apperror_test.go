package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom_PassesTypedErrorsThrough(t *testing.T) {
	orig := Conflict("user already exists")
	wrapped := fmt.Errorf("register: %w", orig)

	got := From(wrapped, "failed to create user")

	assert.Same(t, orig, got)
	assert.Equal(t, KindConflict, got.Kind)
}

func TestFrom_CoercesUntypedToInternal(t *testing.T) {
	cause := errors.New("pq: connection refused")

	got := From(cause, "failed to create user")

	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "failed to create user", got.Message)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, From(nil, "x"))
}

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("login: %w", Unauthorized("incorrect password"))

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWrap_KeepsKindAndMessage(t *testing.T) {
	base := BadRequest("user not found")
	cause := errors.New("no rows")

	got := base.Wrap(cause)

	assert.Equal(t, KindBadRequest, got.Kind)
	assert.Equal(t, "user not found", got.Message)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, base.Err)
}
