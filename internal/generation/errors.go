package generation

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/validation"
)

// Precondition failures. Both are *validation.InputError and are reported
// before any model call is made.
var (
	ErrNothingToTailor = &validation.InputError{
		Field:   "knowledgeBase",
		Message: "please upload a knowledge base JSON file or at least one previous resume PDF",
	}
	ErrMissingJobDescription = &validation.InputError{
		Field:   "jobDescription",
		Message: "please provide a job description",
	}
)

// UserMessage is the only text shown to users for any generation failure.
const UserMessage = "Failed to communicate with the AI model."

// Kind classifies a generation failure.
type Kind int

const (
	// KindTransport covers failures to reach the model or get any answer.
	KindTransport Kind = iota + 1
	// KindMalformed covers answers that do not decode into a resume.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is a failed generation. Callers show UserMessage; Cause is for logs.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the generic message shown for every generation failure.
func (e *Error) UserMessage() string {
	return UserMessage
}

// IsGenerationError reports whether err is a generation failure.
func IsGenerationError(err error) bool {
	var genErr *Error
	return errors.As(err, &genErr)
}
