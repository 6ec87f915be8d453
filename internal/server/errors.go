package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generation"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/jonathan/resume-tailor/internal/upload"
	"github.com/jonathan/resume-tailor/internal/validation"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	File   string                  `json:"file,omitempty"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

// ErrBadRequest indicates a malformed request body or form.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		fileErr    *upload.FileError
		validErr   *validation.ValidationError
		inputErr   *validation.InputError
		genErr     *generation.Error
		exportErr  *rendering.ExportError
		renderErr  *rendering.RenderError
		fetchErr   *fetch.Error
		badReq     *ErrBadRequest
		maxByteErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, session.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.As(err, &maxByteErr), errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &fileErr), errors.As(err, &validErr), errors.As(err, &badReq),
		errors.Is(err, upload.ErrEmptyBatch):
		return http.StatusBadRequest
	case errors.As(err, &inputErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &genErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &exportErr), errors.As(err, &renderErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the user-facing body for err. Generation failures and
// unexpected errors never expose their cause.
func errorBody(err error) ErrorResponse {
	var (
		fileErr   *upload.FileError
		validErr  *validation.ValidationError
		inputErr  *validation.InputError
		exportErr *rendering.ExportError
		renderErr *rendering.RenderError
		fetchErr  *fetch.Error
	)

	switch {
	case generation.IsGenerationError(err):
		return ErrorResponse{Error: generation.UserMessage}
	case errors.As(err, &validErr):
		return ErrorResponse{Error: "the file does not match the profile structure", File: validErr.Source, Errors: validErr.Errors}
	case errors.As(err, &fileErr):
		return ErrorResponse{Error: fileErr.Error(), File: fileErr.Name}
	case errors.As(err, &inputErr):
		return ErrorResponse{Error: inputErr.Message}
	case errors.As(err, &exportErr):
		return ErrorResponse{Error: "failed to export the resume as PDF"}
	case errors.As(err, &renderErr):
		return ErrorResponse{Error: "failed to render the resume"}
	case errors.As(err, &fetchErr):
		return ErrorResponse{Error: fetchErr.Error()}
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return ErrorResponse{Error: "internal server error"}
	}
	return ErrorResponse{Error: err.Error()}
}
