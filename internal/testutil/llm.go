package testutil

import (
	"context"
	"sync"

	"github.com/jonathan/resume-tailor/internal/llm"
)

// FakeLLM is an llm.Client that returns canned answers and records requests.
type FakeLLM struct {
	Response string
	Err      error
	// Gate, when set, blocks each call until it is closed or the context ends.
	Gate chan struct{}
	// Started, when set, receives once per call before the call blocks on Gate.
	Started chan struct{}

	mu       sync.Mutex
	requests []llm.Request
}

// GenerateJSON records req and returns the canned answer.
func (f *FakeLLM) GenerateJSON(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Started != nil {
		f.Started <- struct{}{}
	}
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.Response, f.Err
}

// GetModel returns a fixed model name.
func (f *FakeLLM) GetModel(llm.ModelTier) string {
	return "fake-model"
}

// Close does nothing.
func (f *FakeLLM) Close() error {
	return nil
}

// Requests returns the recorded requests.
func (f *FakeLLM) Requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

// Calls returns the number of recorded requests.
func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// ResumeJSON is a valid generated resume.
const ResumeJSON = `{
  "personalInfo": {"fullName": "דנה לוי", "email": "dana@example.com", "phone": "050-1234567", "linkedin": "https://linkedin.com/in/dana", "location": "תל אביב"},
  "summary": "מהנדסת תוכנה עם ניסיון בבניית שירותי backend.",
  "experience": [{"role": "מהנדסת תוכנה", "company": "Acme", "period": "2020-2024", "description": ["פיתוח שירותים ב-Go", "הובלת מעבר לענן"]}],
  "education": [{"degree": "B.Sc. מדעי המחשב", "institution": "הטכניון", "period": "2014-2018"}],
  "skills": [{"category": "שפות תכנות", "items": ["Go", "Python"]}]
}`

// JobDescription is a job description long enough to pass validation.
const JobDescription = "We are hiring a senior backend engineer to design and run Go services on Kubernetes, " +
	"own PostgreSQL data models and mentor the team."
