package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/placeshare/places/pkg/artifact"
)

// extByMIME lists accepted upload types and their file extensions.
var extByMIME = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// Store keeps artifacts as files under a base directory. Refs are paths
// relative to the directory, so they survive a directory move.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Save(ctx context.Context, mimeType string, r io.Reader) (string, error) {
	ext, ok := extByMIME[mimeType]
	if !ok {
		return "", artifact.ErrUnsupportedType
	}
	name := uuid.NewString() + "." + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

func (s *Store) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
}

// Dir returns the base directory, used for static file serving.
func (s *Store) Dir() string { return s.dir }
