package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/internal/upload"
)

// Request size limits.
const (
	maxUploadBytes    = 64 << 20
	maxUploadMemory   = 8 << 20
	maxJSONBodyBytes  = 256 << 10
	uploadFormField   = "files"
	noResumeMessage   = "no resume has been generated yet"
	noExporterMessage = "PDF export is not available on this server"
)

// CreateSessionResponse is returned by POST /sessions.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// UploadResponse is returned by POST /session/uploads.
type UploadResponse struct {
	Files         []upload.LoadedFile `json:"files"`
	KnowledgeBase *types.Profile      `json:"knowledgeBase,omitempty"`
	Attachments   []types.Attachment  `json:"attachments"`
}

// JobDescriptionRequest is the body of PUT /session/job-description.
// Exactly one of Text and URL is set.
type JobDescriptionRequest struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// JobDescriptionResponse echoes the stored job description.
type JobDescriptionResponse struct {
	JobDescription string `json:"jobDescription"`
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// handleCreateSession starts an empty session and issues its bearer token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.errorResponse(w, r, fmt.Errorf("failed to create session: %w", err))
		return
	}

	token, err := s.jwtService.GenerateToken(sess.ID())
	if err != nil {
		s.sessions.Evict(sess.ID())
		s.errorResponse(w, r, fmt.Errorf("failed to issue token: %w", err))
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateSessionResponse{SessionID: sess.ID(), Token: token})
}

// currentSession resolves the session named by the request's token. It writes
// the error response itself and returns false on failure.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.jsonResponse(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil, false
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		log.Printf("[server] failed to open session %s: %v", id, err)
		s.jsonResponse(w, http.StatusUnauthorized, ErrorResponse{Error: "unknown session"})
		return nil, false
	}
	return sess, true
}

// handleGetSession returns a snapshot of the session state.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// handleResetSession clears the session and its persisted state.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	sess.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleUpload loads one batch of files from the multipart field "files".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, r, err)
			return
		}
		s.errorResponse(w, r, &ErrBadRequest{Message: "expected a multipart form with a \"files\" field"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadFormField]
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, upload.FromMultipart(fh))
	}

	batch, err := sess.LoadBatch(r.Context(), files)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	snap := sess.Snapshot()
	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Files:         batch.Files,
		KnowledgeBase: snap.Profile,
		Attachments:   snap.Attachments,
	})
}

// handleExampleProfile serves the example knowledge base as a download.
func (s *Server) handleExampleProfile(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": prompts.ExampleProfileFile,
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(prompts.ExampleProfile())
}

// handleLoadExample merges the example knowledge base into the session as if
// it had been uploaded.
func (s *Server) handleLoadExample(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	file := upload.FromBytes(prompts.ExampleProfileFile, upload.MediaTypeJSON, prompts.ExampleProfile())
	batch, err := sess.LoadBatch(r.Context(), []upload.File{file})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	snap := sess.Snapshot()
	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Files:         batch.Files,
		KnowledgeBase: snap.Profile,
		Attachments:   snap.Attachments,
	})
}

// handleSetJobDescription stores pasted text or the text of a job posting URL.
func (s *Server) handleSetJobDescription(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	var req JobDescriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	text := req.Text
	switch {
	case req.URL != "" && strings.TrimSpace(req.Text) != "":
		s.errorResponse(w, r, &ErrBadRequest{Message: "provide either text or url, not both"})
		return
	case req.URL != "":
		if s.fetchJob == nil {
			s.jsonResponse(w, http.StatusNotImplemented, ErrorResponse{Error: "fetching job postings is not available on this server"})
			return
		}
		if err := fetch.ValidateURL(req.URL); err != nil {
			s.errorResponse(w, r, &ErrBadRequest{Message: err.Error()})
			return
		}
		fetched, err := s.fetchJob(r.Context(), req.URL)
		if err != nil {
			var fetchErr *fetch.Error
			if !errors.As(err, &fetchErr) {
				err = &fetch.Error{URL: req.URL, Message: "failed to fetch job posting", Cause: err}
			}
			s.errorResponse(w, r, err)
			return
		}
		text = fetched
	}

	clean, err := sess.SetJobDescription(r.Context(), text)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, JobDescriptionResponse{JobDescription: clean})
}

// handleGenerate runs one generation for the session. The model call is not
// cancelled when the client disconnects.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	doc, err := sess.Generate(context.WithoutCancel(r.Context()), s.generator)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleGetResume returns the last generated resume as JSON.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.currentResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleGetResumeHTML returns the printable HTML view of the last resume.
func (s *Server) handleGetResumeHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.currentResume(w, r)
	if !ok {
		return
	}

	html, err := rendering.RenderHTML(doc, rendering.Options{Language: s.language})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// handleGetResumePDF exports the last resume as a single A4 page.
func (s *Server) handleGetResumePDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.currentResume(w, r)
	if !ok {
		return
	}
	if s.exporter == nil {
		s.jsonResponse(w, http.StatusNotImplemented, ErrorResponse{Error: noExporterMessage})
		return
	}

	html, err := rendering.RenderHTML(doc, rendering.Options{Language: s.language})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	pdf, err := s.exporter.Export(r.Context(), html)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": rendering.FileName(doc),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) currentResume(w http.ResponseWriter, r *http.Request) (*types.GeneratedDocument, bool) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return nil, false
	}
	doc := sess.Result()
	if doc == nil {
		s.jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: noResumeMessage})
		return nil, false
	}
	return doc, true
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return &ErrBadRequest{Message: "invalid request body: " + err.Error()}
	}
	return nil
}
