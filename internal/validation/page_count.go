package validation

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// CountPDFPages opens an in-memory PDF and returns its page count.
// Payloads that do not parse as PDF documents are rejected.
func CountPDFPages(data []byte) (pages int, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, &Error{Message: "file is not a PDF document"}
	}

	// the pdf reader panics on some truncated cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = &Error{Message: "malformed PDF document", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, &Error{Message: "malformed PDF document", Cause: err}
	}

	pages = reader.NumPage()
	if pages == 0 {
		return 0, &Error{Message: "PDF document has no pages"}
	}
	return pages, nil
}
