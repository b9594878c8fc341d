package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports field-level problems with submitted data. Field is
// empty for errors that concern the record as a whole.
type ValidationError struct {
	Problems []Problem
}

// Problem is a single validation failure.
type Problem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field != "" {
			msgs = append(msgs, p.Field+": "+p.Message)
		} else {
			msgs = append(msgs, p.Message)
		}
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// FieldErrors groups messages by field for inline rendering.
func (e *ValidationError) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.Problems))
	for _, p := range e.Problems {
		if _, ok := out[p.Field]; !ok {
			out[p.Field] = p.Message
		}
	}
	return out
}

func (e *ValidationError) add(field, msg string) {
	e.Problems = append(e.Problems, Problem{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// checkStruct runs tag validation and converts failures to a ValidationError.
func checkStruct(v any) *ValidationError {
	out := &ValidationError{}
	err := validate.Struct(v)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.add("", err.Error())
		return out
	}
	for _, fe := range fieldErrs {
		out.add(fe.Field(), describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("Select one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %q validation.", fe.Tag())
	}
}

// Validate checks musician input.
func (in *MusicianInput) Validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Description = strings.TrimSpace(in.Description)

	ve := checkStruct(in)
	if in.Birth.IsZero() {
		ve.add("birth", "This field is required.")
	}
	return ve.orNil()
}

// Validate checks venue input.
func (in *VenueInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return checkStruct(in).orNil()
}

// Validate checks room input.
func (in *RoomInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	return checkStruct(in).orNil()
}

// FieldError builds a ValidationError for a single field.
func FieldError(field, msg string) *ValidationError {
	ve := &ValidationError{}
	ve.add(field, msg)
	return ve
}

// ValidateStruct runs tag validation on v, returning a ValidationError or nil.
func ValidateStruct(v any) error {
	return checkStruct(v).orNil()
}
