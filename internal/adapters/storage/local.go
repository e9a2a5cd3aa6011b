package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coursehub/internal/core/domain"

	"github.com/google/uuid"
)

// LocalStore keeps course images on disk and serves them under /uploads.
// Used in development when no Cloudinary account is configured.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory images are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// Upload writes the image under a random name, keeping the original extension
func (s *LocalStore) Upload(ctx context.Context, file domain.ImageFile) (*domain.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(s.dir, handle)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(f, file.Reader); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	return &domain.ImageRef{URL: s.baseURL + "/uploads/" + handle, Handle: handle}, nil
}

// Delete removes the image; an already missing image counts as deleted
func (s *LocalStore) Delete(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// handles are flat file names
	if handle == "" || handle != filepath.Base(handle) {
		return fmt.Errorf("invalid image handle %q", handle)
	}

	err := os.Remove(filepath.Join(s.dir, handle))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
