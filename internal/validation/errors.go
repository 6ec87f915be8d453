// Package validation checks and cleans untrusted uploaded content before it is
// merged into a profile or forwarded to the model.
package validation

import (
	"fmt"
	"strings"
)

// FieldError represents a single validation failure at a specific field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a profile fragment is rejected.
// The fragment is rejected as a whole; Errors lists every violated rule.
type ValidationError struct {
	Source string       `json:"source,omitempty"`
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("%s does not match the profile structure: ", e.Source))
	} else {
		sb.WriteString("profile does not match the expected structure: ")
	}
	for i, fe := range e.Errors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return sb.String()
}

// InputError represents a rejected free-text input or a missing precondition.
// Message is safe to show to the user.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Error represents a failure to inspect an uploaded document.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
