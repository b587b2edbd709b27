package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedAttachment is returned for files that are not png or jpg images.
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")
	// ErrInvalidAttachmentName is returned for names that do not resolve to a file
	// directly inside the attachments directory.
	ErrInvalidAttachmentName = errors.New("invalid attachment name")
)

// AttachmentExtensions are the accepted image extensions, lower case.
var AttachmentExtensions = []string{".png", ".jpg", ".jpeg"}

// AttachmentStore copies uploaded images into a single directory.
// Files are stored under their original name; a second upload with the same
// name replaces the first.
type AttachmentStore struct {
	dir string
}

// NewAttachmentStore creates a store writing into dir.
func NewAttachmentStore(dir string) *AttachmentStore {
	return &AttachmentStore{dir: dir}
}

// Dir returns the attachments directory.
func (s *AttachmentStore) Dir() string {
	return s.dir
}

// Supported reports whether filename has an accepted image extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AttachmentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Save copies the bytes of r verbatim to the attachments directory and
// returns the stored path.
func (s *AttachmentStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}
	if !Supported(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAttachment, name)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create attachments directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create attachment: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close attachment: %w", err)
	}

	return path, nil
}

// Resolve returns the absolute location of a stored attachment by name.
// It fails with os.ErrNotExist when the file is absent.
func (s *AttachmentStore) Resolve(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, clean)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", os.ErrNotExist
	}
	return path, nil
}

// Exists reports whether a stored screenshot path still points at a file.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// cleanName reduces an uploaded file name to its base name. Browsers may send
// full client paths; only the last element is kept.
func cleanName(filename string) (string, error) {
	name := filename[strings.LastIndexAny(filename, `/\`)+1:]
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidAttachmentName
	}
	return name, nil
}
