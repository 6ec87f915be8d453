package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/generation"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/testutil"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knowledgeBaseJSON = `{
  "personalInfo": {"fullName": "Dana Levi", "email": "dana@example.com", "phone": "050-1234567", "location": "Tel Aviv"},
  "experience": [{"role": "Backend Engineer", "company": "Acme", "period": "2020-2024", "description": ["Built Go services"]}],
  "skills": [{"category": "Languages", "items": ["Go", "Python"]}]
}`

type fakeExporter struct {
	err   error
	calls int
	html  string
}

func (f *fakeExporter) Export(_ context.Context, html string) ([]byte, error) {
	f.calls++
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return testutil.MinimalPDF(1), nil
}

type testServer struct {
	*Server
	llm      *testutil.FakeLLM
	exporter *fakeExporter
	store    *storage.MemoryStore
}

type serverOption func(*Config)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	fake := &testutil.FakeLLM{Response: testutil.ResumeJSON}
	gen, err := generation.New(fake, generation.Options{})
	require.NoError(t, err)

	store := storage.NewMemoryStore()
	exporter := &fakeExporter{}
	cfg := Config{
		Sessions:  session.NewManager(store),
		Generator: gen,
		Language:  generation.DefaultLanguage,
		Exporter:  exporter,
		JWT:       &config.JWTConfig{Secret: testJWTSecret, TTL: 24 * time.Hour},
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return &testServer{Server: s, llm: fake, exporter: exporter, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts *testServer) createSession(t *testing.T) CreateSessionResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/sessions", "", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

type formFile struct {
	name string
	data []byte
}

func (ts *testServer) upload(t *testing.T, token string, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(uploadFormField, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return ts.do(t, http.MethodPost, "/session/uploads", token, &body, mw.FormDataContentType())
}

func (ts *testServer) setJobDescription(t *testing.T, token string, req JobDescriptionRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return ts.do(t, http.MethodPut, "/session/job-description", token, bytes.NewReader(body), "application/json")
}

// ready creates a session with a knowledge base and a job description.
func (ts *testServer) ready(t *testing.T) string {
	t.Helper()
	token := ts.createSession(t).Token
	require.Equal(t, http.StatusOK, ts.upload(t, token, formFile{"kb.json", []byte(knowledgeBaseJSON)}).Code)
	require.Equal(t, http.StatusOK, ts.setJobDescription(t, token, JobDescriptionRequest{Text: testutil.JobDescription}).Code)
	return token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestNew_RequiresDependencies(t *testing.T) {
	gen, err := generation.New(&testutil.FakeLLM{}, generation.Options{})
	require.NoError(t, err)
	jwtCfg := &config.JWTConfig{Secret: testJWTSecret, TTL: time.Hour}
	manager := session.NewManager(nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no sessions", cfg: Config{Generator: gen, JWT: jwtCfg}},
		{name: "no generator", cfg: Config{Sessions: manager, JWT: jwtCfg}},
		{name: "no jwt", cfg: Config{Sessions: manager, Generator: gen}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	w := ts.do(t, http.MethodGet, "/session", created.Token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, created.SessionID, snap.ID)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.JobDescription)
	assert.False(t, snap.Generating)
}

func TestSessionEndpoints_RequireToken(t *testing.T) {
	ts := newTestServer(t)
	other := NewJWTService(&config.JWTConfig{Secret: "some-other-secret-0123456789", TTL: time.Hour})
	forged, err := other.GenerateToken("6b0d3c9e-8f4a-4d7e-9a1b-2c3d4e5f6a7b")
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/session"},
		{http.MethodDelete, "/session"},
		{http.MethodPost, "/session/uploads"},
		{http.MethodPut, "/session/job-description"},
		{http.MethodPost, "/session/generate"},
		{http.MethodGet, "/session/resume"},
		{http.MethodGet, "/session/resume.html"},
		{http.MethodGet, "/session/resume.pdf"},
	}
	for _, route := range routes {
		for _, token := range []string{"", "garbage", forged} {
			w := ts.do(t, route.method, route.path, token, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
		}
	}
	assert.Zero(t, ts.llm.Calls())
}

func TestSession_TokenForNonUUIDIsRejected(t *testing.T) {
	ts := newTestServer(t)
	token, err := ts.jwtService.GenerateToken("not-a-uuid")
	require.NoError(t, err)

	w := ts.do(t, http.MethodGet, "/session", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpload_MergesBatch(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	skills := []byte(`{"skills": [{"category": "Languages", "items": ["Go"]}]}`)
	w := ts.upload(t, token,
		formFile{"a.json", skills},
		formFile{"old-cv.pdf", testutil.MinimalPDF(2)},
		formFile{"b.json", skills},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 3)
	assert.Equal(t, "a.json", resp.Files[0].Name)
	assert.Equal(t, "PDF", resp.Files[1].Type)
	require.NotNil(t, resp.KnowledgeBase)
	assert.Equal(t, []types.SkillGroup{{Category: "Languages", Items: []string{"Go"}}}, resp.KnowledgeBase.Skills,
		"duplicates within one batch collapse")
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "old-cv.pdf", resp.Attachments[0].FileName)
	assert.Equal(t, 2, resp.Attachments[0].Pages)

	w = ts.upload(t, token, formFile{"c.json", skills})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.KnowledgeBase.Skills, 2, "a later batch appends")
	assert.Len(t, resp.Attachments, 1)
}

func TestUpload_SessionAttachmentLimit(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	files := make([]formFile, session.MaxAttachments+1)
	for i := range files {
		files[i] = formFile{fmt.Sprintf("cv-%d.pdf", i), testutil.MinimalPDF(1)}
	}
	w := ts.upload(t, token, files...)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/session", token, nil, "")
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Attachments)
}

func TestExampleProfile_Download(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/example-profile", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "knowledge-base-example.json")

	var profile types.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "ישראל ישראלי", profile.PersonalInfo.FullName)
}

func TestExampleProfile_LoadIntoSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/session/example", "", nil, "").Code)

	require.Equal(t, http.StatusOK, ts.upload(t, token, formFile{"kb.json", []byte(knowledgeBaseJSON)}).Code)
	w := ts.do(t, http.MethodPost, "/session/example", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "JSON", resp.Files[0].Type)
	require.NotNil(t, resp.KnowledgeBase)
	assert.Equal(t, "ישראל ישראלי", resp.KnowledgeBase.PersonalInfo.FullName)
	assert.Len(t, resp.KnowledgeBase.Experience, 3, "the example is merged like a later upload")
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		files      []formFile
		wantStatus int
		wantFile   string
	}{
		{
			name:       "invalid profile sinks the batch",
			files:      []formFile{{"good.json", []byte(knowledgeBaseJSON)}, {"bad.json", []byte(`{"personalInfo": {"email": "nope"}}`)}},
			wantStatus: http.StatusBadRequest,
			wantFile:   "bad.json",
		},
		{
			name:       "broken JSON",
			files:      []formFile{{"broken.json", []byte(`{"skills": [`)}},
			wantStatus: http.StatusBadRequest,
			wantFile:   "broken.json",
		},
		{
			name:       "unsupported type",
			files:      []formFile{{"good.json", []byte(knowledgeBaseJSON)}, {"notes.txt", []byte("hello")}},
			wantStatus: http.StatusUnsupportedMediaType,
			wantFile:   "notes.txt",
		},
		{
			name:       "oversized profile",
			files:      []formFile{{"big.json", bytes.Repeat([]byte(" "), (1<<20)+1)}},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantFile:   "big.json",
		},
		{
			name:       "no files",
			files:      nil,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			token := ts.createSession(t).Token

			w := ts.upload(t, token, tt.files...)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			resp := decodeError(t, w)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.wantFile, resp.File)

			w = ts.do(t, http.MethodGet, "/session", token, nil, "")
			var snap session.Snapshot
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
			assert.Nil(t, snap.Profile, "nothing from a rejected batch is kept")
			assert.Empty(t, snap.Attachments)
		})
	}
}

func TestUpload_ValidationErrorsListFields(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	w := ts.upload(t, token, formFile{"bad.json", []byte(`{"personalInfo": {"fullName": "D", "email": "nope", "phone": "1", "location": "TLV"}}`)})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	require.NotEmpty(t, resp.Errors)
	fields := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "personalInfo.email")
}

func TestUpload_NotMultipart(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	w := ts.do(t, http.MethodPost, "/session/uploads", token, strings.NewReader(knowledgeBaseJSON), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobDescription(t *testing.T) {
	fetched := "Platform engineer wanted. You will build the deployment tooling for forty Go services and own on-call."
	fetchJob := func(_ context.Context, url string) (string, error) {
		if strings.Contains(url, "broken") {
			return "", errors.New("connection refused")
		}
		return fetched, nil
	}

	tests := []struct {
		name       string
		req        string
		noFetcher  bool
		wantStatus int
		wantText   string
	}{
		{name: "pasted text is sanitized", req: `{"text": "  <script>alert(1)</script>` + testutil.JobDescription + `  "}`, wantStatus: http.StatusOK, wantText: testutil.JobDescription},
		{name: "too short", req: `{"text": "Go dev"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "empty", req: `{}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "both text and url", req: `{"text": "x", "url": "https://example.com/job"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", req: `{"body": "x"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", req: `{"text": `, wantStatus: http.StatusBadRequest},
		{name: "url is fetched", req: `{"url": "https://jobs.example.com/123"}`, wantStatus: http.StatusOK, wantText: fetched},
		{name: "invalid url", req: `{"url": "ftp://example.com/job"}`, wantStatus: http.StatusBadRequest},
		{name: "fetch failure", req: `{"url": "https://broken.example.com/job"}`, wantStatus: http.StatusBadGateway},
		{name: "no fetcher", req: `{"url": "https://jobs.example.com/123"}`, noFetcher: true, wantStatus: http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(c *Config) {
				if !tt.noFetcher {
					c.FetchJob = fetchJob
				}
			})
			token := ts.createSession(t).Token

			w := ts.do(t, http.MethodPut, "/session/job-description", token, strings.NewReader(tt.req), "application/json")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantText == "" {
				return
			}
			var resp JobDescriptionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantText, resp.JobDescription)
		})
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	ts := newTestServer(t)
	token := ts.ready(t)

	w := ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc types.GeneratedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "דנה לוי", doc.PersonalInfo.FullName)
	assert.Equal(t, 1, ts.llm.Calls())

	w = ts.do(t, http.MethodGet, "/session/resume", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored types.GeneratedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, doc, stored)

	w = ts.do(t, http.MethodGet, "/session/resume.html", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `dir="rtl"`)
	assert.Contains(t, w.Body.String(), "דנה לוי")

	w = ts.do(t, http.MethodGet, "/session/resume.pdf", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "_CV.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, ts.exporter.html, "דנה לוי")
}

func TestGenerate_PreconditionsMakeNoCall(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	w := ts.setJobDescription(t, token, JobDescriptionRequest{Text: testutil.JobDescription})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, generation.ErrNothingToTailor.Message, decodeError(t, w).Error)

	token = ts.createSession(t).Token
	require.Equal(t, http.StatusOK, ts.upload(t, token, formFile{"kb.json", []byte(knowledgeBaseJSON)}).Code)

	w = ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, generation.ErrMissingJobDescription.Message, decodeError(t, w).Error)

	assert.Zero(t, ts.llm.Calls())
}

func TestGenerate_AttachmentOnlyIsEnough(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token
	require.Equal(t, http.StatusOK, ts.upload(t, token, formFile{"cv.pdf", testutil.MinimalPDF(1)}).Code)
	require.Equal(t, http.StatusOK, ts.setJobDescription(t, token, JobDescriptionRequest{Text: testutil.JobDescription}).Code)

	w := ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGenerate_FailureKeepsPreviousResult(t *testing.T) {
	tests := []struct {
		name   string
		breakLLM func(f *testutil.FakeLLM)
	}{
		{name: "transport", breakLLM: func(f *testutil.FakeLLM) { f.Err = errors.New("connection reset") }},
		{name: "malformed", breakLLM: func(f *testutil.FakeLLM) { f.Response = "I cannot help with that." }},
		{name: "schema violation", breakLLM: func(f *testutil.FakeLLM) { f.Response = `{"summary": "only a summary"}` }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			token := ts.ready(t)

			require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/session/generate", token, nil, "").Code)

			tt.breakLLM(ts.llm)
			w := ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
			require.Equal(t, http.StatusBadGateway, w.Code)
			assert.Equal(t, generation.UserMessage, decodeError(t, w).Error, "details never reach the client")

			w = ts.do(t, http.MethodGet, "/session/resume", token, nil, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "דנה לוי")
		})
	}
}

func TestGenerate_OneInFlightPerSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.ready(t)

	ts.llm.Gate = make(chan struct{})
	ts.llm.Started = make(chan struct{}, 1)

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	}()

	select {
	case <-ts.llm.Started:
	case <-time.After(5 * time.Second):
		t.Fatal("generation did not start")
	}

	w := ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/session", token, nil, "")
	assert.Contains(t, w.Body.String(), `"generating":true`)

	close(ts.llm.Gate)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, ts.llm.Calls())
}

func TestResume_NotGeneratedYet(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createSession(t).Token

	for _, path := range []string{"/session/resume", "/session/resume.html", "/session/resume.pdf"} {
		w := ts.do(t, http.MethodGet, path, token, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	assert.Zero(t, ts.exporter.calls)
}

func TestResumePDF_ExportFailure(t *testing.T) {
	ts := newTestServer(t)
	token := ts.ready(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/session/generate", token, nil, "").Code)

	ts.exporter.err = &rendering.ExportError{Message: "chrome crashed"}
	w := ts.do(t, http.MethodGet, "/session/resume.pdf", token, nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decodeError(t, w).Error
	assert.NotEqual(t, generation.UserMessage, msg, "export failures are reported distinctly")
	assert.Contains(t, msg, "PDF")

	w = ts.do(t, http.MethodGet, "/session/resume", token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "the stored resume survives a failed export")
}

func TestResumePDF_NoExporter(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Exporter = nil })
	token := ts.ready(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/session/generate", token, nil, "").Code)

	w := ts.do(t, http.MethodGet, "/session/resume.pdf", token, nil, "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestResetSession(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)
	token := created.Token
	require.Equal(t, http.StatusOK, ts.upload(t, token, formFile{"kb.json", []byte(knowledgeBaseJSON)}).Code)
	require.Equal(t, http.StatusOK, ts.setJobDescription(t, token, JobDescriptionRequest{Text: testutil.JobDescription}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/session/generate", token, nil, "").Code)

	w := ts.do(t, http.MethodDelete, "/session", token, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/session", token, nil, "")
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.JobDescription)
	assert.Nil(t, snap.Result)

	for _, key := range []string{session.KeyProfile, session.KeyJobDescription, session.KeyGeneratedResume} {
		_, err := ts.store.Get(context.Background(), created.SessionID, key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
}

func TestSession_SurvivesEviction(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)
	require.Equal(t, http.StatusOK, ts.upload(t, created.Token, formFile{"kb.json", []byte(knowledgeBaseJSON)}).Code)

	ts.sessions.Evict(created.SessionID)

	w := ts.do(t, http.MethodGet, "/session", created.Token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Dana Levi", snap.Profile.PersonalInfo.FullName)
}

func TestRateLimit_Generate(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/session/generate", Method: http.MethodPost, Limit: 1, Window: time.Hour, Burst: 1},
			},
		}
	})
	token := ts.ready(t)

	w := ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(t, http.MethodPost, "/session/generate", token, nil, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.Equal(t, 1, ts.llm.Calls())
}

func TestCORSMiddleware(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodOptions, "/session/generate", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestJSONResponse(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}
