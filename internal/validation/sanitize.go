package validation

import (
	"regexp"
	"strings"
)

// injectionPatterns match content that must never reach the model or storage:
// script and frame blocks (plus any dangling tags), script-scheme links and
// inline event-handler attributes.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b.*?</script\s*>`),
	regexp.MustCompile(`(?is)<iframe\b.*?</iframe\s*>`),
	regexp.MustCompile(`(?i)</?(?:script|iframe)\b[^>]*>?`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
}

// Sanitize strips known injection vectors from free text and trims it.
//
// Removal is repeated until nothing matches, so input such as
// "javajavascript:script:" cannot reassemble a vector and
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	for {
		cleaned := text
		for _, re := range injectionPatterns {
			cleaned = re.ReplaceAllString(cleaned, "")
		}
		if cleaned == text {
			break
		}
		text = cleaned
	}
	return strings.TrimSpace(text)
}
