// Package prompts loads the prompt templates sent to the model and the sample
// knowledge base. Both are JSON files embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// GenerationFile holds the resume tailoring prompts.
const GenerationFile = "generation.json"

// Keys in GenerationFile.
const (
	KeyTailorResume          = "tailor-resume"
	KeyKnowledgeBaseSection  = "knowledge-base-section"
	KeyAttachmentsSection    = "attachments-section"
	KeyJobDescriptionSection = "job-description-section"
	KeyClosing               = "closing"
	KeySummaryField          = "summary-field"
	KeyBulletField           = "bullet-field"
)

var placeholderPattern = regexp.MustCompile(`\{\{\.[A-Za-z]+\}\}`)

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by file name (without path) and key.
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data. Values are
// inserted once; placeholders that appear inside a value are not expanded.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(match, "{{."), "}}")
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct placeholder names used by template, sorted.
func Placeholders(template string) []string {
	var names []string
	for _, match := range placeholderPattern.FindAllString(template, -1) {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "{{."), "}}")
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// List returns the prompt keys of a file, sorted.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Check verifies that filename defines every key of want and that each of
// those templates uses exactly the listed placeholders, given sorted.
func Check(filename string, want map[string][]string) error {
	keys, err := List(filename)
	if err != nil {
		return err
	}

	var problems []string
	for key, names := range want {
		if !slices.Contains(keys, key) {
			problems = append(problems, fmt.Sprintf("missing key %q", key))
			continue
		}
		prompt, err := Get(filename, key)
		if err != nil {
			return err
		}
		if got := Placeholders(prompt); !slices.Equal(got, names) {
			problems = append(problems, fmt.Sprintf("%s uses placeholders %v, want %v", key, got, names))
		}
	}
	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("prompt file %s: %s", filename, strings.Join(problems, "; "))
	}
	return nil
}
