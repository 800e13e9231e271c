package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError carries per-field validator failures.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// details converts the field map for ErrorResponse.Details.
func (e *ValidationError) details() map[string]any {
	out := make(map[string]any, len(e.Fields))
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}

// validateStruct runs the struct tags of s.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		switch fe.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", fe.Field())
		case "len":
			fields[field] = fmt.Sprintf("%s must have exactly %s elements", fe.Field(), fe.Param())
		case "gt":
			fields[field] = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		default:
			fields[field] = fmt.Sprintf("%s validation failed on '%s' tag", fe.Field(), fe.Tag())
		}
	}

	return &ValidationError{Message: "Validation failed", Fields: fields}
}
