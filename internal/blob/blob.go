// Package blob abstracts binary media storage. The rest of the system only
// ever holds the returned handle.
package blob

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store accepts an uploaded file and returns a retrievable handle.
type Store interface {
	Save(ext string, r io.Reader) (string, error)
	Open(handle string) (io.ReadCloser, error)
}

// LocalStore keeps blobs as files under a base directory, named by uuid so
// uploads can never collide or traverse paths.
type LocalStore struct {
	base string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(base string) (*LocalStore, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, err
	}
	return &LocalStore{base: base}, nil
}

// Save streams the upload to disk and returns its handle.
func (s *LocalStore) Save(ext string, r io.Reader) (string, error) {
	// Keep only a well-formed ".ext" suffix from whatever the client sent.
	ext = filepath.Ext("x" + ext)
	handle := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.base, handle))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return handle, nil
}

// Open returns the blob for a previously issued handle.
func (s *LocalStore) Open(handle string) (io.ReadCloser, error) {
	// Handles are issued by Save; reject anything that is not a bare name.
	if handle != filepath.Base(handle) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.base, handle))
}
