// Package storage holds the image upload backends for course images.
package storage

import (
	"context"
	"errors"
	"fmt"

	"coursehub/internal/core/domain"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps course images on Cloudinary.
// The handle of an image is its Cloudinary public id.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore creates a Cloudinary backed image store
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

// Upload streams the image to Cloudinary
func (s *CloudinaryStore) Upload(ctx context.Context, file domain.ImageFile) (*domain.ImageRef, error) {
	resp, err := s.cld.Upload.Upload(ctx, file.Reader, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return &domain.ImageRef{URL: resp.SecureURL, Handle: resp.PublicID}, nil
}

// Delete destroys the image; an already missing image counts as deleted
func (s *CloudinaryStore) Delete(ctx context.Context, handle string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: handle})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: unexpected result %q", resp.Result)
	}
	return nil
}
