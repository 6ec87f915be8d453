// Package rendering turns a generated resume into HTML and exports it as a
// one-page PDF.
package rendering

import "fmt"

// RenderError is returned when the HTML view of a resume cannot be built.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ExportStage names the step of a PDF export that failed.
type ExportStage string

// Export stages in the order they run.
const (
	StageLoad    ExportStage = "load"
	StageMeasure ExportStage = "measure"
	StagePrint   ExportStage = "print"
)

// ExportError is returned when the PDF file cannot be produced. The stored
// resume is unaffected and can be exported again.
type ExportError struct {
	Stage   ExportStage
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	prefix := "export error"
	if e.Stage != "" {
		prefix = fmt.Sprintf("export error (%s)", e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
