package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-tailor/internal/types"
)

const rootField = "(root)"

var validate = newValidator()

// newValidator returns a validator that reports JSON field names, so errors
// point at the path the user wrote in the uploaded file.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateProfile parses an uploaded structured profile, sanitizes its free
// text and checks it against the profile rules. On failure it returns a
// *ValidationError and no fragment: an invalid upload is never partially accepted.
func ValidateProfile(data []byte) (*types.Profile, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &ValidationError{Errors: []FieldError{{Field: rootField, Message: "expected a JSON object"}}}
	}

	var profile types.Profile
	if err := json.Unmarshal(trimmed, &profile); err != nil {
		return nil, &ValidationError{Errors: []FieldError{decodeFieldError(err)}}
	}

	profile.MapStrings(Sanitize)

	if err := ValidateProfileStruct(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ValidateProfileStruct checks an already decoded profile against the profile rules.
func ValidateProfileStruct(profile *types.Profile) error {
	err := validate.Struct(profile)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Errors: []FieldError{{Field: rootField, Message: err.Error()}}}
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// fieldPath drops the root type name from a validator namespace:
// "Profile.experience[0].role" becomes "experience[0].role".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func decodeFieldError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = rootField
		}
		return FieldError{
			Field:   field,
			Message: fmt.Sprintf("expected %s, got %s", jsonKind(typeErr.Type), typeErr.Value),
		}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return FieldError{
			Field:   rootField,
			Message: fmt.Sprintf("invalid JSON at offset %d: %v", syntaxErr.Offset, syntaxErr),
		}
	}

	return FieldError{Field: rootField, Message: fmt.Sprintf("invalid JSON: %v", err)}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map, reflect.Pointer:
		return "an object"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a number"
	}
}
