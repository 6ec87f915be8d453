// Package schemas embeds the JSON Schemas of the documents exchanged with the
// model and with users.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Schema file names.
const (
	GeneratedDocument = "generated_document.schema.json"
	Profile           = "profile.schema.json"
)

// Read returns the content of an embedded schema.
func Read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	return data, nil
}

// MustRead is Read for schemas the program cannot run without.
func MustRead(name string) []byte {
	data, err := Read(name)
	if err != nil {
		panic(err)
	}
	return data
}
