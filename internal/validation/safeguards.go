package validation

import (
	"log"
	"regexp"
	"strings"
)

// instructionPatterns match wording that tries to give the model new
// instructions. Matches are reported, not removed: a job description is
// forwarded as the employer wrote it.
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(?:all\s+)?(?:previous|prior|everything)`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
	regexp.MustCompile(`(?i)system\s+prompt`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+an?\b`),
}

// InstructionPhrases returns the instruction-like phrases found in text, in
// pattern order, lower-cased.
func InstructionPhrases(text string) []string {
	var found []string
	for _, re := range instructionPatterns {
		if m := re.FindString(text); m != "" {
			found = append(found, strings.ToLower(strings.Join(strings.Fields(m), " ")))
		}
	}
	return found
}

// warnInstructionPhrases logs instruction-like phrases found in text taken
// from source.
func warnInstructionPhrases(source, text string) {
	if found := InstructionPhrases(text); len(found) > 0 {
		log.Printf("[validation] %s contains instruction-like phrases: %s", source, strings.Join(found, ", "))
	}
}
