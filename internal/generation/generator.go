// Package generation turns a session's profile, attachments and job
// description into one request to the model and decodes the tailored resume
// it returns.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
	schemafiles "github.com/jonathan/resume-tailor/schemas"
)

// DefaultLanguage is the language every text field of the resume is written in.
const DefaultLanguage = "Hebrew"

// promptPlaceholders lists the templates Generate uses and the values each
// one is formatted with.
var promptPlaceholders = map[string][]string{
	prompts.KeyTailorResume:          {"Language"},
	prompts.KeyKnowledgeBaseSection:  {"KnowledgeBase"},
	prompts.KeyAttachmentsSection:    nil,
	prompts.KeyJobDescriptionSection: {"JobDescription"},
	prompts.KeyClosing:               nil,
	prompts.KeySummaryField:          {"Language"},
	prompts.KeyBulletField:           {"Language"},
}

// Input is everything the model sees for one generation.
type Input struct {
	Profile        *types.Profile
	Attachments    []types.Attachment
	JobDescription string
}

// Options configure a Generator.
type Options struct {
	// Language of the generated resume. Defaults to DefaultLanguage.
	Language string
	// Tier selects the model. Defaults to llm.TierStandard.
	Tier llm.ModelTier
}

// Generator issues one model call per Generate. It holds no per-session state
// and is safe for concurrent use.
type Generator struct {
	client    llm.Client
	language  string
	tier      llm.ModelTier
	schema    *genai.Schema
	validator *schemas.Validator
}

// New returns a Generator that talks to client.
func New(client llm.Client, opts Options) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}

	if err := prompts.Check(prompts.GenerationFile, promptPlaceholders); err != nil {
		return nil, fmt.Errorf("invalid prompt templates: %w", err)
	}

	v, err := schemas.Compile(schemafiles.GeneratedDocument, schemafiles.MustRead(schemafiles.GeneratedDocument))
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}

	return &Generator{
		client:    client,
		language:  opts.Language,
		tier:      opts.Tier,
		schema:    ResponseSchema(opts.Language),
		validator: v,
	}, nil
}

// Generate checks preconditions, calls the model exactly once and decodes the
// answer. Precondition failures are *validation.InputError; everything after
// the call starts is *Error.
func (g *Generator) Generate(ctx context.Context, in Input) (*types.GeneratedDocument, error) {
	req, err := g.BuildRequest(in)
	if err != nil {
		return nil, err
	}

	log.Printf("[generation] requesting resume from %s (%d part(s), %d attachment(s))",
		g.client.GetModel(g.tier), len(req.Parts), len(in.Attachments))

	raw, err := g.client.GenerateJSON(ctx, req)
	if err != nil {
		log.Printf("[generation] model call failed: %v", err)
		return nil, &Error{Kind: KindTransport, Cause: err}
	}

	doc, err := g.decode(raw)
	if err != nil {
		log.Printf("[generation] unusable model response: %v", err)
		return nil, &Error{Kind: KindMalformed, Cause: err}
	}
	return doc, nil
}

// BuildRequest assembles the ordered request parts: instruction, knowledge
// base, attachments, job description, closing directive.
func (g *Generator) BuildRequest(in Input) (llm.Request, error) {
	hasProfile := !in.Profile.IsEmpty()
	if !hasProfile && len(in.Attachments) == 0 {
		return llm.Request{}, ErrNothingToTailor
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return llm.Request{}, ErrMissingJobDescription
	}

	get := func(key string) string { return prompts.MustGet(prompts.GenerationFile, key) }

	parts := []llm.Part{
		llm.TextPart(prompts.Format(get(prompts.KeyTailorResume), map[string]string{"Language": strings.ToUpper(g.language)})),
	}

	if hasProfile {
		kb, err := json.MarshalIndent(in.Profile, "", "  ")
		if err != nil {
			return llm.Request{}, fmt.Errorf("failed to encode knowledge base: %w", err)
		}
		parts = append(parts, llm.TextPart(prompts.Format(get(prompts.KeyKnowledgeBaseSection), map[string]string{"KnowledgeBase": string(kb)})))
	}

	if len(in.Attachments) > 0 {
		parts = append(parts, llm.TextPart(get(prompts.KeyAttachmentsSection)))
		for _, a := range in.Attachments {
			parts = append(parts, llm.BlobPart(a.MIMEType, a.Data))
		}
	}

	parts = append(parts,
		llm.TextPart(prompts.Format(get(prompts.KeyJobDescriptionSection), map[string]string{"JobDescription": in.JobDescription})),
		llm.TextPart(get(prompts.KeyClosing)),
	)

	return llm.Request{Tier: g.tier, Parts: parts, Schema: g.schema}, nil
}

func (g *Generator) decode(raw string) (*types.GeneratedDocument, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}
	if err := g.validator.Validate([]byte(cleaned)); err != nil {
		return nil, err
	}

	var doc types.GeneratedDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode resume: %w", err)
	}
	return &doc, nil
}
