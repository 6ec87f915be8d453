package validation

import (
	"fmt"
	"unicode/utf8"
)

// Job description length bounds, in characters.
const (
	MinJobDescriptionLength = 50
	MaxJobDescriptionLength = 10000
)

// ValidateJobDescription sanitizes a pasted or fetched job description and
// enforces its length bounds. It returns the sanitized text, or an *InputError
// carrying the first violated rule.
func ValidateJobDescription(text string) (string, error) {
	clean := Sanitize(text)

	n := utf8.RuneCountInString(clean)
	if n < MinJobDescriptionLength {
		return "", &InputError{
			Field:   "jobDescription",
			Message: fmt.Sprintf("job description is too short (at least %d characters)", MinJobDescriptionLength),
		}
	}
	if n > MaxJobDescriptionLength {
		return "", &InputError{
			Field:   "jobDescription",
			Message: fmt.Sprintf("job description is too long (at most %d characters)", MaxJobDescriptionLength),
		}
	}

	warnInstructionPhrases("job description", clean)
	return clean, nil
}
