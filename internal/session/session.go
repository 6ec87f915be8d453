// Package session holds one user's working state: the merged profile, the
// uploaded attachments, the target job description and the last generated
// resume. Every mutation is written through to a Store so a session survives
// restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/jonathan/resume-tailor/internal/generation"
	"github.com/jonathan/resume-tailor/internal/merge"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/internal/upload"
	"github.com/jonathan/resume-tailor/internal/validation"
)

// Persisted keys.
const (
	KeyProfile         = "knowledge_base"
	KeyJobDescription  = "job_description"
	KeyGeneratedResume = "generated_resume"
)

// Per-session caps on attachments, which are held in memory only.
const (
	MaxAttachments     = 10
	MaxAttachmentBytes = 25 << 20
)

// ErrGenerationInProgress is returned when a session is asked to generate
// while its previous generation has not returned yet.
var ErrGenerationInProgress = errors.New("a resume is already being generated for this session")

// Store persists session entries by key.
type Store interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Put(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// Generator produces a tailored resume.
type Generator interface {
	Generate(ctx context.Context, in generation.Input) (*types.GeneratedDocument, error)
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	ID             string                   `json:"session_id"`
	Profile        *types.Profile           `json:"knowledgeBase,omitempty"`
	Attachments    []types.Attachment       `json:"attachments"`
	JobDescription string                   `json:"jobDescription"`
	Result         *types.GeneratedDocument `json:"generatedResume,omitempty"`
	Generating     bool                     `json:"generating"`
}

// Session is safe for concurrent use. Mutations are serialized; a generation
// runs outside the lock and at most one is in flight at a time.
type Session struct {
	id    string
	store Store

	maxAttachments     int
	maxAttachmentBytes int

	mu             sync.Mutex
	profile        *types.Profile
	attachments    []types.Attachment
	jobDescription string
	result         *types.GeneratedDocument
	generating     bool
}

// Open returns the session id, hydrated from store. Keys that are absent or
// unreadable leave the matching state empty. A nil store keeps the session in
// memory only.
func Open(ctx context.Context, id string, store Store) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}
	s := &Session{id: id, store: store, maxAttachments: MaxAttachments, maxAttachmentBytes: MaxAttachmentBytes}
	if store == nil {
		return s, nil
	}

	var profile types.Profile
	if s.hydrate(ctx, KeyProfile, &profile) && !profile.IsEmpty() {
		s.profile = &profile
	}
	var jobDescription string
	if s.hydrate(ctx, KeyJobDescription, &jobDescription) {
		s.jobDescription = jobDescription
	}
	var result types.GeneratedDocument
	if s.hydrate(ctx, KeyGeneratedResume, &result) {
		s.result = &result
	}
	return s, nil
}

func (s *Session) hydrate(ctx context.Context, key string, v any) bool {
	data, err := s.store.Get(ctx, s.id, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		log.Printf("[session] %s: failed to load %s: %v", s.id, key, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[session] %s: ignoring unreadable %s: %v", s.id, key, err)
		return false
	}
	return true
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// LoadBatch reads one upload action, merges its profile fragments into the
// session profile and appends its attachments. The batch is all or nothing: on
// error the session is unchanged. A batch that would take the session past its
// attachment limits is rejected whole. A successful load clears the generated
// resume.
func (s *Session) LoadBatch(ctx context.Context, files []upload.File) (*upload.Batch, error) {
	batch, err := upload.Read(ctx, files)
	if err != nil {
		return nil, err
	}
	fragment := merge.Batch(batch.Fragments...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttachmentRoom(batch.Attachments); err != nil {
		return nil, err
	}

	s.profile = merge.Incremental(s.profile, fragment)
	s.attachments = append(s.attachments, batch.Attachments...)
	s.result = nil

	s.persist(ctx, KeyProfile, s.profile)
	s.forget(ctx, KeyGeneratedResume)

	log.Printf("[session] %s: loaded %d profile file(s) and %d attachment(s)",
		s.id, len(batch.Fragments), len(batch.Attachments))
	return batch, nil
}

func (s *Session) checkAttachmentRoom(incoming []types.Attachment) error {
	if len(incoming) == 0 {
		return nil
	}
	total := 0
	for _, a := range slices.Concat(s.attachments, incoming) {
		total += a.Size()
	}
	if len(s.attachments)+len(incoming) <= s.maxAttachments && total <= s.maxAttachmentBytes {
		return nil
	}
	return &upload.FileError{
		Name: incoming[0].FileName,
		Message: fmt.Sprintf("a session holds at most %d attachments and %d MiB",
			s.maxAttachments, s.maxAttachmentBytes>>20),
		Cause: upload.ErrTooLarge,
	}
}

// SetJobDescription validates and stores the target job description, returning
// the sanitized text.
func (s *Session) SetJobDescription(ctx context.Context, text string) (string, error) {
	clean, err := validation.ValidateJobDescription(text)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobDescription = clean
	s.persist(ctx, KeyJobDescription, clean)
	return clean, nil
}

// Generate asks gen for a resume tailored to the current state. On success the
// result replaces the previous one; on failure the previous result is kept.
func (s *Session) Generate(ctx context.Context, gen Generator) (*types.GeneratedDocument, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	in := generation.Input{
		Profile:        s.profile,
		Attachments:    slices.Clip(s.attachments),
		JobDescription: s.jobDescription,
	}
	s.generating = true
	s.mu.Unlock()

	doc, err := gen.Generate(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if err != nil {
		return nil, err
	}

	s.result = doc
	s.persist(ctx, KeyGeneratedResume, doc)
	return doc, nil
}

// Result returns the last generated resume, or nil.
func (s *Session) Result() *types.GeneratedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.id,
		Profile:        s.profile,
		Attachments:    slices.Clone(s.attachments),
		JobDescription: s.jobDescription,
		Result:         s.result,
		Generating:     s.generating,
	}
}

// Reset clears the session in memory and removes every persisted key.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	s.attachments = nil
	s.jobDescription = ""
	s.result = nil
	s.forget(ctx, KeyProfile, KeyJobDescription, KeyGeneratedResume)
	log.Printf("[session] %s: reset", s.id)
}

// persist writes v under key. Write failures are logged and never surface to
// the caller: the in-memory state stays authoritative.
func (s *Session) persist(ctx context.Context, key string, v any) {
	if s.store == nil {
		return
	}
	if v == nil || v == (*types.Profile)(nil) {
		s.forget(ctx, key)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[session] %s: failed to encode %s: %v", s.id, key, err)
		return
	}
	if err := s.store.Put(ctx, s.id, key, data); err != nil {
		log.Printf("[session] %s: failed to persist %s: %v", s.id, key, err)
	}
}

func (s *Session) forget(ctx context.Context, keys ...string) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, s.id, keys...); err != nil {
		log.Printf("[session] %s: failed to delete %v: %v", s.id, keys, err)
	}
}
