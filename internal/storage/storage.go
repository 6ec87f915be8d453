// Package storage provides the key-value backends that persist session state.
package storage

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// checkNames rejects session IDs and keys that are unsafe as path or key components.
func checkNames(sessionID string, keys ...string) error {
	if !namePattern.MatchString(sessionID) {
		return fmt.Errorf("invalid session id %q", sessionID)
	}
	for _, key := range keys {
		if !namePattern.MatchString(key) {
			return fmt.Errorf("invalid key %q", key)
		}
	}
	return nil
}
