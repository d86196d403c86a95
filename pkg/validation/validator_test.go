package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
)

func TestChecker_CollectsFirstFailurePerField(t *testing.T) {
	c := New()
	c.Var("email", "", "required,email")
	c.Var("email", "nope", "required,email")
	c.Var("password", "abc", "required,min=6")
	c.Var("age", -1, "gte=0,lte=150")
	c.Var("project", "not-a-uuid", "required,uuid")
	c.Var("name", "ok", "required")

	require.Len(t, c.Fields(), 4)
	assert.Equal(t, apperror.FieldError{Field: "email", Message: "is required"}, c.Fields()[0])
	assert.Equal(t, "must be at least 6 characters long", c.Fields()[1].Message)
	assert.Equal(t, "must be greater than or equal to 0", c.Fields()[2].Message)
	assert.Equal(t, "must be a valid UUID", c.Fields()[3].Message)

	err := c.Err()
	assert.ErrorIs(t, err, apperror.ErrValidation)
	var ae *apperror.Error
	require.True(t, errors.As(err, &ae))
	assert.Len(t, ae.Fields, 4)
}

func TestChecker_NoFailures(t *testing.T) {
	c := New()
	c.Var("email", "a@x.com", "required,email")
	c.Var("age", 30, "gte=0,lte=150")
	assert.NoError(t, c.Err())
}

func TestChecker_AddCustom(t *testing.T) {
	c := New()
	c.Add("role", "must be one of: BASIC, ADMIN")
	c.Add("role", "ignored")
	require.Len(t, c.Fields(), 1)
	assert.Equal(t, "must be one of: BASIC, ADMIN", c.Fields()[0].Message)
}

func TestFromBindError(t *testing.T) {
	var target struct {
		Age int `json:"age"`
	}
	err := json.NewDecoder(strings.NewReader(`{"age":"old"}`)).Decode(&target)
	require.Error(t, err)

	var ae *apperror.Error
	require.True(t, errors.As(FromBindError(err), &ae))
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	assert.Equal(t, "age", ae.Fields[0].Field)

	err = json.Unmarshal([]byte(`{"age":`), &target)
	require.True(t, errors.As(FromBindError(err), &ae))
	assert.Equal(t, "payload", ae.Fields[0].Field)
	assert.Nil(t, FromBindError(nil))
}

func TestChecker_Aliases(t *testing.T) {
	tests := []struct {
		name  string
		value string
		tag   string
		msg   string
	}{
		{name: "pwd too short", value: "123", tag: "pwd", msg: "must be between 6 and 72 characters long"},
		{name: "pwd too long", value: strings.Repeat("a", 73), tag: "pwd", msg: "must be between 6 and 72 characters long"},
		{name: "pwd ok", value: "Secret1!", tag: "pwd"},
		{name: "uuid4 malformed", value: "nope", tag: "required,uuid4", msg: "must be a valid UUID"},
		{name: "uuid4 ok", value: "6ba7b810-9dad-41d1-80b4-00c04fd430c8", tag: "required,uuid4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Var("f", tt.value, tt.tag)
			if tt.msg == "" {
				assert.NoError(t, c.Err())
				return
			}
			require.Len(t, c.Fields(), 1)
			assert.Equal(t, tt.msg, c.Fields()[0].Message)
		})
	}
}
