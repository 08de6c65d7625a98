package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a blob reference does not resolve.
var ErrNotFound = errors.New("blob not found")

// ErrTooLarge is returned when a blob exceeds the configured size cap.
var ErrTooLarge = errors.New("blob exceeds size limit")

// BlobStore is an opaque attachment sink keyed by filename. Callers save the
// blob first and only then commit metadata referencing it, so a crash between
// the two leaves an orphaned blob rather than a dangling reference.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Read(ctx context.Context, ref string) ([]byte, error)
}

type localStore struct {
	dir     string
	maxSize int64
}

// NewLocalStore creates a disk-backed blob store rooted at dir.
func NewLocalStore(dir string, maxSize int64) (BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &localStore{dir: dir, maxSize: maxSize}, nil
}

func (s *localStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}
	ref := sanitizeFilename(name)
	if ref == "" {
		return "", errors.New("empty attachment name")
	}
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *localStore) Read(_ context.Context, ref string) ([]byte, error) {
	clean := sanitizeFilename(ref)
	if clean == "" || clean != ref {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// sanitizeFilename strips any path components so a blob name can never
// escape the store directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	name = strings.ReplaceAll(name, "..", "")
	return name
}
