package application

import (
	"strings"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/validation"
)

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`

	// Request metadata carried into the verification email.
	ClientIP  string `json:"-"`
	UserAgent string `json:"-"`
}

func (in RegisterInput) Validate() error {
	v := validation.New()
	v.Var("first_name", in.FirstName, "required")
	v.Var("last_name", in.LastName, "required")
	v.Var("age", in.Age, "gte=0,lte=150")
	v.Var("email", in.Email, "required,email")
	v.Var("username", in.Username, "required")
	checkPassword(v, in.Password)
	if _, ok := entity.ParseRole(in.Role); !ok {
		v.Add("role", "must be one of: BASIC, ADMIN")
	}
	return v.Err()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	v := validation.New()
	v.Var("email", in.Email, "required,email")
	v.Var("password", in.Password, "required,min=6")
	return v.Err()
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Age       *int    `json:"age"`
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

func (in UpdateUserInput) Validate() error {
	v := validation.New()
	if in.FirstName != nil {
		v.Var("first_name", *in.FirstName, "required")
	}
	if in.LastName != nil {
		v.Var("last_name", *in.LastName, "required")
	}
	if in.Age != nil {
		v.Var("age", *in.Age, "gte=0,lte=150")
	}
	if in.Email != nil {
		v.Var("email", *in.Email, "required,email")
	}
	if in.Username != nil {
		v.Var("username", *in.Username, "required")
	}
	if in.Password != nil {
		checkPassword(v, *in.Password)
	}
	if in.Role != nil {
		if _, ok := entity.ParseRole(*in.Role); !ok || strings.TrimSpace(*in.Role) == "" {
			v.Add("role", "must be one of: BASIC, ADMIN")
		}
	}
	return v.Err()
}

type AssignInput struct {
	UserID      string `json:"user"`
	ProjectID   string `json:"project"`
	AccessLevel string `json:"access_level"`
}

func (in AssignInput) Validate() error {
	v := validation.New()
	v.Var("user", in.UserID, "required,uuid4")
	v.Var("project", in.ProjectID, "required,uuid4")
	if _, ok := entity.ParseAccessLevel(in.AccessLevel); !ok {
		v.Add("access_level", "must be one of: DEVELOPER, MAINTAINER, OWNER")
	}
	return v.Err()
}

type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in CreateProjectInput) Validate() error {
	v := validation.New()
	v.Var("name", in.Name, "required")
	v.Var("description", in.Description, "required")
	return v.Err()
}

// ListUsersInput carries query parameters for the paginated listing.
type ListUsersInput struct {
	Page   int
	Limit  int
	Search string
}

const (
	defaultPage  = 1
	defaultLimit = 5
	maxLimit     = 100
)

func (in ListUsersInput) normalize() ListUsersInput {
	if in.Page < 1 {
		in.Page = defaultPage
	}
	if in.Limit < 1 {
		in.Limit = defaultLimit
	}
	if in.Limit > maxLimit {
		in.Limit = maxLimit
	}
	return in
}

// bcrypt accepts at most 72 bytes of input.
const maxPasswordBytes = 72

func passwordTooLong(cause error) error {
	return apperror.Validation([]apperror.FieldError{{Field: "password", Message: "must be at most 72 bytes long"}}).Wrap(cause)
}

func checkPassword(v *validation.Checker, pw string) {
	v.Var("password", pw, "pwd")
	if len(pw) > maxPasswordBytes {
		v.Add("password", "must be at most 72 bytes long")
	}
}
