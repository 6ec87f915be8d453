package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-tailor/internal/testutil"
	"github.com/jonathan/resume-tailor/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		file      File
		want      Kind
		wantError bool
	}{
		{"json media type", File{Name: "profile", MediaType: "application/json"}, KindProfile, false},
		{"json media type with charset", File{Name: "p", MediaType: "application/json; charset=utf-8"}, KindProfile, false},
		{"pdf media type", File{Name: "cv", MediaType: "application/pdf"}, KindAttachment, false},
		{"extension fallback", File{Name: "cv.PDF", MediaType: "application/octet-stream"}, KindAttachment, false},
		{"json extension", File{Name: "profile.json"}, KindProfile, false},
		{"docx rejected", File{Name: "cv.docx", MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, 0, true},
		{"text rejected", File{Name: "notes.txt", MediaType: "text/plain"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Classify(tt.file)
			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestRead_MixedBatchKeepsUploadOrder(t *testing.T) {
	files := []File{
		FromBytes("b.json", MediaTypeJSON, []byte(`{"professionalSummaryBase": "second source"}`)),
		FromBytes("cv.pdf", MediaTypePDF, testutil.MinimalPDF(1)),
		FromBytes("a.json", MediaTypeJSON, []byte(`{"skills": [{"category": "Languages", "items": ["Go"]}]}`)),
	}

	batch, err := Read(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, batch.Fragments, 2)
	assert.Equal(t, "second source", batch.Fragments[0].ProfessionalSummaryBase)
	assert.Equal(t, "Languages", batch.Fragments[1].Skills[0].Category)

	require.Len(t, batch.Attachments, 1)
	assert.Equal(t, "cv.pdf", batch.Attachments[0].FileName)
	assert.Equal(t, MediaTypePDF, batch.Attachments[0].MIMEType)
	assert.Equal(t, 1, batch.Attachments[0].Pages)

	assert.Equal(t, []LoadedFile{{"b.json", "JSON"}, {"cv.pdf", "PDF"}, {"a.json", "JSON"}}, batch.Files)
}

func TestRead_InvalidFileFailsWholeBatch(t *testing.T) {
	files := []File{
		FromBytes("good.json", MediaTypeJSON, []byte(`{"skills": [{"category": "Languages", "items": ["Go"]}]}`)),
		FromBytes("bad.json", MediaTypeJSON, []byte(`{"skills": []}`)),
	}

	batch, err := Read(context.Background(), files)
	require.Error(t, err)
	assert.Nil(t, batch)

	var vErr *validation.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "bad.json", vErr.Source)
	assert.Equal(t, "skills", vErr.Errors[0].Field)
}

func TestRead_UnsupportedFileFailsWholeBatch(t *testing.T) {
	files := []File{
		FromBytes("good.json", MediaTypeJSON, []byte(`{}`)),
		FromBytes("notes.txt", "text/plain", []byte("hello")),
	}

	_, err := Read(context.Background(), files)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRead_SizeCaps(t *testing.T) {
	t.Run("declared size", func(t *testing.T) {
		f := FromBytes("big.json", MediaTypeJSON, []byte(`{}`))
		f.Size = MaxProfileSize + 1
		_, err := Read(context.Background(), []File{f})
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("actual size when declared size lies", func(t *testing.T) {
		f := FromBytes("big.pdf", MediaTypePDF, bytes.Repeat([]byte("x"), MaxAttachmentSize+1))
		f.Size = 10
		_, err := Read(context.Background(), []File{f})
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestRead_ReadFailureFailsBatch(t *testing.T) {
	broken := File{
		Name:      "broken.pdf",
		MediaType: MediaTypePDF,
		Size:      10,
		Open:      func() (io.ReadCloser, error) { return nil, errors.New("disk gone") },
	}
	files := []File{FromBytes("ok.json", MediaTypeJSON, []byte(`{}`)), broken}

	_, err := Read(context.Background(), files)
	require.Error(t, err)
	var fErr *FileError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "broken.pdf", fErr.Name)
}

func TestRead_EmptyBatch(t *testing.T) {
	_, err := Read(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"professionalSummaryBase": "from disk"}`), 0o600))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "profile.json", f.Name)

	batch, err := Read(context.Background(), []File{f})
	require.NoError(t, err)
	assert.Equal(t, "from disk", batch.Fragments[0].ProfessionalSummaryBase)

	_, err = FromPath(dir)
	assert.Error(t, err)
}
