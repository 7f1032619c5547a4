package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError names the first failing field and rule, e.g. {"Password", "min"}.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return "invalid " + strings.ToLower(e.Field) + ": " + e.Rule
}

// Validate checks a request struct and reports every failing field in
// declaration order.
func Validate(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.StructField(), Rule: fe.Tag()})
	}
	return out
}
