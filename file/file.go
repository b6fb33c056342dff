package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/multipart"
)

// Object describes a stored upload.
type Object struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
	URL         string `json:"url,omitempty"`
}

// Storage persists uploaded file parts.
type Storage interface {
	// Save writes the part content under dir and returns its metadata.
	Save(ctx context.Context, part multipart.Part, dir string) (Object, error)
	// Delete removes a stored object.
	Delete(ctx context.Context, path string) error
	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)
	// URL returns the public address of path.
	URL(path string) string
}

// Describe computes the object metadata for part stored under dir. The
// object name is prefixed with a digest of the content so repeated uploads of
// the same bytes land on the same key.
func Describe(part multipart.Part, dir string) (Object, error) {
	if !part.IsFile() {
		return Object{}, ErrNotAFile
	}
	cleanDir, err := cleanRelative(dir)
	if err != nil {
		return Object{}, err
	}

	sum := sha256.Sum256(part.Content)
	digest := hex.EncodeToString(sum[:])
	name := SanitizeFilename(part.FileName())

	ct := part.ContentType()
	if !part.Header.Has("content-type") {
		ct = http.DetectContentType(part.Content)
	}

	return Object{
		Name:        name,
		Path:        path.Join(cleanDir, digest[:16]+"-"+name),
		ContentType: ct,
		Size:        int64(part.Size()),
		SHA256:      digest,
	}, nil
}

// ValidateSize rejects parts larger than maxBytes.
func ValidateSize(part multipart.Part, maxBytes int64) error {
	if int64(part.Size()) > maxBytes {
		return fmt.Errorf("%w: %d bytes over %d", ErrFileTooLarge, part.Size(), maxBytes)
	}
	return nil
}

// ValidateType rejects parts whose detected content type is not in allowed.
// An empty allow-list accepts everything.
func ValidateType(part multipart.Part, allowed ...string) error {
	if len(allowed) == 0 {
		return nil
	}
	ct := http.DetectContentType(part.Content)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if slices.Contains(allowed, ct) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTypeNotAllowed, ct)
}

// SanitizeFilename strips directory components and NUL bytes.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(path.Base(name), "\x00", "")
	switch name {
	case "", ".", "..", "/":
		return "unnamed"
	}
	return name
}

// cleanRelative normalizes a slash-separated relative path and rejects
// traversal outside the storage root.
func cleanRelative(p string) (string, error) {
	p = strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "/")
	if p == "" {
		return "", nil
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	return path.Clean(p), nil
}
