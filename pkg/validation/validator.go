package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Aliases for common semantics
	v.RegisterAlias("pwd", "required,min=6,max=72")
	v.RegisterAlias("uuid4", "uuid")
	return v
}

// Checker accumulates per-field failures for one input value. Each field
// reports at most its first failing rule.
type Checker struct {
	fields []apperror.FieldError
	seen   map[string]bool
}

func New() *Checker {
	return &Checker{seen: map[string]bool{}}
}

// Var checks value against a validator tag expression such as "required,email".
func (c *Checker) Var(field string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.Add(field, formatFieldError(verrs[0]))
		return
	}
	c.Add(field, "is invalid")
}

// Add records a failure computed outside the validator.
func (c *Checker) Add(field, message string) {
	if c.seen[field] {
		return
	}
	c.seen[field] = true
	c.fields = append(c.fields, apperror.FieldError{Field: field, Message: message})
}

func (c *Checker) Fields() []apperror.FieldError { return c.fields }

// Err returns an apperror of kind Validation, or nil when every check passed.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return apperror.Validation(c.fields)
}

// FromBindError converts a request-body decoding error into a Validation error.
func FromBindError(err error) error {
	if err == nil {
		return nil
	}
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return apperror.Validation([]apperror.FieldError{{Field: field, Message: "must be a " + ute.Type.String()}})
	case errors.As(err, &se), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Validation([]apperror.FieldError{{Field: "payload", Message: "invalid json"}})
	default:
		return apperror.Validation([]apperror.FieldError{{Field: "payload", Message: "invalid payload"}})
	}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	// ===== PRESENCE =====
	case "required":
		return "is required"
	case "pwd":
		return "must be between 6 and 72 characters long"

	// ===== STRING FORMAT =====
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4", "uuid_rfc4122":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "ascii":
		return "must contain ASCII characters only"
	case "lowercase":
		return "must be in lowercase"

	// ===== SIZE/LENGTH =====
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"

	// ===== NUMERIC COMPARISON =====
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param

	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
