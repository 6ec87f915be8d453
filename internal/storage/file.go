package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each session in its own directory under Root, one file per key.
type FileStore struct {
	Root string
}

// NewFileStore creates root if needed.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("state directory is required")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{Root: root}, nil
}

func (s *FileStore) path(sessionID, key string) string {
	return filepath.Join(s.Root, sessionID, key+".json")
}

// Get reads a key.
func (s *FileStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	if err := checkNames(sessionID, key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(sessionID, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes a key through a temporary file so a crash never leaves a torn value.
func (s *FileStore) Put(_ context.Context, sessionID, key string, value []byte) error {
	if err := checkNames(sessionID, key); err != nil {
		return err
	}
	dir := filepath.Join(s.Root, sessionID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(sessionID, key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete removes keys; missing keys are ignored.
func (s *FileStore) Delete(_ context.Context, sessionID string, keys ...string) error {
	if err := checkNames(sessionID, keys...); err != nil {
		return err
	}
	for _, key := range keys {
		if err := os.Remove(s.path(sessionID, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	// Drop the session directory once it is empty.
	_ = os.Remove(filepath.Join(s.Root, sessionID))
	return nil
}
