package generation

import (
	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/resume-tailor/internal/prompts"
)

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func stringArray(description string) *genai.Schema {
	items := stringSchema()
	items.Description = description
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func objectArray(properties map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeObject, Properties: properties, Required: required},
	}
}

// ResponseSchema returns the structured output contract sent to the model.
// It mirrors schemas/generated_document.schema.json, with field descriptions
// that pin the output language.
func ResponseSchema(language string) *genai.Schema {
	vars := map[string]string{"Language": language}
	summary := stringSchema()
	summary.Description = prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeySummaryField), vars)
	bullet := prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeyBulletField), vars)

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"personalInfo": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fullName": stringSchema(),
					"email":    stringSchema(),
					"phone":    stringSchema(),
					"linkedin": stringSchema(),
					"location": stringSchema(),
				},
				Required: []string{"fullName", "email", "phone", "location"},
			},
			"summary": summary,
			"experience": objectArray(map[string]*genai.Schema{
				"role":        stringSchema(),
				"company":     stringSchema(),
				"period":      stringSchema(),
				"description": stringArray(bullet),
			}, "role", "company", "period", "description"),
			"education": objectArray(map[string]*genai.Schema{
				"degree":      stringSchema(),
				"institution": stringSchema(),
				"period":      stringSchema(),
			}, "degree", "institution", "period"),
			"skills": objectArray(map[string]*genai.Schema{
				"category": stringSchema(),
				"items":    stringArray(""),
			}, "category", "items"),
		},
		Required: []string{"personalInfo", "summary", "experience", "education", "skills"},
	}
}
