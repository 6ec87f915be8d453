// Package upload reads one upload batch: it classifies each file as a
// structured profile or a document attachment, enforces size caps, and runs
// validation on every file concurrently.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/internal/validation"
	"golang.org/x/sync/errgroup"
)

// Size caps per upload format.
const (
	MaxProfileSize    = 1 << 20 // 1 MiB
	MaxAttachmentSize = 5 << 20 // 5 MiB
)

// Media types accepted by the uploader.
const (
	MediaTypeJSON = "application/json"
	MediaTypePDF  = "application/pdf"
)

// Kind is the upload format of a file.
type Kind int

// Kind values.
const (
	KindProfile Kind = iota + 1
	KindAttachment
)

func (k Kind) String() string {
	switch k {
	case KindProfile:
		return "JSON"
	case KindAttachment:
		return "PDF"
	default:
		return "unknown"
	}
}

// Sentinel causes carried by *FileError.
var (
	ErrUnsupportedType = errors.New("only JSON or PDF files are accepted")
	ErrTooLarge        = errors.New("file exceeds the size limit")
	ErrEmptyBatch      = errors.New("no valid data found in the uploaded files")
)

// FileError reports why a file sank its batch.
type FileError struct {
	Name    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// File is one uploaded file. MediaType is the type declared by the client and
// may be empty, in which case the file name extension decides.
type File struct {
	Name      string
	MediaType string
	Size      int64
	Open      func() (io.ReadCloser, error)
}

// FromPath describes a local file.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromMultipart describes a file received in a multipart form.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Open:      func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes describes a file already held in memory.
func FromBytes(name, mediaType string, data []byte) File {
	return File{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open:      func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Classify returns the upload format of f.
func Classify(f File) (Kind, error) {
	if mediaType, _, err := mime.ParseMediaType(f.MediaType); err == nil {
		switch mediaType {
		case MediaTypeJSON:
			return KindProfile, nil
		case MediaTypePDF:
			return KindAttachment, nil
		}
	}

	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".json":
		return KindProfile, nil
	case ".pdf":
		return KindAttachment, nil
	}
	return 0, &FileError{Name: f.Name, Message: "rejected", Cause: ErrUnsupportedType}
}

// Batch holds the validated contents of one upload action in upload order.
type Batch struct {
	Fragments   []*types.Profile
	Attachments []types.Attachment
	Files       []LoadedFile
}

// LoadedFile records the name and format of an accepted file.
type LoadedFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Read reads and validates every file of a batch concurrently. The batch is
// atomic: if any file is unsupported, oversized, unreadable or invalid, Read
// returns that error and nothing from the batch.
func Read(ctx context.Context, files []File) (*Batch, error) {
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}

	kinds := make([]Kind, len(files))
	for i, f := range files {
		kind, err := Classify(f)
		if err != nil {
			return nil, err
		}
		kinds[i] = kind
	}

	fragments := make([]*types.Profile, len(files))
	attachments := make([]*types.Attachment, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			switch kinds[i] {
			case KindProfile:
				fragment, err := readProfile(gCtx, f)
				if err != nil {
					return err
				}
				fragments[i] = fragment
			case KindAttachment:
				attachment, err := readAttachment(gCtx, f)
				if err != nil {
					return err
				}
				attachments[i] = attachment
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &Batch{}
	for i, f := range files {
		switch {
		case fragments[i] != nil:
			batch.Fragments = append(batch.Fragments, fragments[i])
		case attachments[i] != nil:
			batch.Attachments = append(batch.Attachments, *attachments[i])
		}
		batch.Files = append(batch.Files, LoadedFile{Name: f.Name, Type: kinds[i].String()})
	}
	return batch, nil
}

func readProfile(ctx context.Context, f File) (*types.Profile, error) {
	data, err := readCapped(ctx, f, MaxProfileSize)
	if err != nil {
		return nil, err
	}

	profile, err := validation.ValidateProfile(data)
	if err != nil {
		var vErr *validation.ValidationError
		if errors.As(err, &vErr) {
			vErr.Source = f.Name
		}
		return nil, &FileError{Name: f.Name, Message: "invalid profile", Cause: err}
	}
	return profile, nil
}

func readAttachment(ctx context.Context, f File) (*types.Attachment, error) {
	data, err := readCapped(ctx, f, MaxAttachmentSize)
	if err != nil {
		return nil, err
	}

	pages, err := validation.CountPDFPages(data)
	if err != nil {
		return nil, &FileError{Name: f.Name, Message: "invalid PDF", Cause: err}
	}

	return &types.Attachment{
		FileName: f.Name,
		MIMEType: MediaTypePDF,
		Data:     data,
		Pages:    pages,
	}, nil
}

// readCapped reads at most limit bytes and fails when the file is larger,
// whatever size the client declared.
func readCapped(ctx context.Context, f File, limit int64) ([]byte, error) {
	if f.Size > limit {
		return nil, &FileError{Name: f.Name, Message: fmt.Sprintf("limit is %d MiB", limit>>20), Cause: ErrTooLarge}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, &FileError{Name: f.Name, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, &FileError{Name: f.Name, Message: "failed to read file", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &FileError{Name: f.Name, Message: fmt.Sprintf("limit is %d MiB", limit>>20), Cause: ErrTooLarge}
	}
	return data, nil
}
