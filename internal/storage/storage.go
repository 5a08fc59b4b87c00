// Package storage persists uploaded files in an external blob store.
package storage

import (
	"context"
	"io"
	"strings"
)

// Object describes a stored blob.
type Object struct {
	Path     string `json:"filePath"`
	Filename string `json:"filename"`
}

// BlobStore writes uploaded files.
type BlobStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (Object, error)
}

// sanitizeFilename strips path separators and whitespace so a client-chosen
// name cannot escape the upload prefix.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "..", "-")
	if name == "" {
		name = "file"
	}
	return name
}
