package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PhotoStore writes uploaded photos to a local directory and serves them back
// under the given URL prefix.
type PhotoStore struct {
	dir       string
	urlPrefix string
}

func NewPhotoStore(dir, urlPrefix string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &PhotoStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the backing directory, for mounting a file server on it.
func (s *PhotoStore) Dir() string {
	return s.dir
}

func (s *PhotoStore) Save(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	// Strip any path components a client might smuggle into the filename.
	name := filepath.Base(filename)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}
