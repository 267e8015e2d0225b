// Package storage holds the blob stores that keep uploaded audio. Blobs are
// addressed by generated names; the returned location is opaque to callers
// and is what gets recorded on the AudioFile row.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type BlobStore interface {
	// Put stores r under name and returns the blob's location.
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	// Delete removes a blob previously stored under name. Missing blobs are
	// not an error.
	Delete(ctx context.Context, name string) error
}

// NewBlobName returns a random UUIDv4 name that keeps the extension of the
// original filename.
func NewBlobName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}
