package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/multipart"
)

// LocalStorage keeps objects under a directory on disk.
// It is safe for concurrent use.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates root when missing. baseURL prefixes object paths in URL.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if root == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrCreateDirectory, err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{root: abs, baseURL: baseURL}, nil
}

func (s *LocalStorage) Save(ctx context.Context, part multipart.Part, dir string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	obj, err := Describe(part, dir)
	if err != nil {
		return Object{}, err
	}

	abs := s.abs(obj.Path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Object{}, errors.Join(ErrCreateDirectory, err)
	}
	// write to a temp file first so readers never observe a partial object
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".upload-*")
	if err != nil {
		return Object{}, errors.Join(ErrWrite, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(part.Content); err != nil {
		_ = tmp.Close()
		return Object{}, errors.Join(ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, errors.Join(ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return Object{}, errors.Join(ErrWrite, err)
	}

	obj.URL = s.URL(obj.Path)
	return obj, nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanRelative(p)
	if err != nil {
		return err
	}
	if err := os.Remove(s.abs(clean)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, clean)
		}
		return errors.Join(ErrDelete, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	clean, err := cleanRelative(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(s.abs(clean))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	default:
		return !info.IsDir(), nil
	}
}

func (s *LocalStorage) URL(p string) string {
	return s.baseURL + strings.TrimPrefix(p, "/")
}

func (s *LocalStorage) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}
