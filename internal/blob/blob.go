// Package blob stores uploaded file contents. Metadata lives in the main
// store; this package only ever sees opaque keys and byte streams.
package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrTooLarge is returned by Save when the stream exceeds the
	// configured size cap. Nothing is kept when this happens.
	ErrTooLarge = errors.New("blob too large")
	ErrNotFound = errors.New("blob not found")
)

// Store is a content-addressed byte store for uploaded files.
type Store interface {
	// Save writes the stream under key and returns the number of bytes
	// written.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey derives a storage key from an uploaded filename, prefixed with a
// random component so distinct uploads of the same name never collide.
func NewKey(filename string) string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "upload"
	}
	return hex.EncodeToString(b) + "-" + base
}
