package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
)

const (
	MaxImagesPerUpload = 5
	MaxImageSize       = 5 * 1024 * 1024
)

// ImageUpload is one file of a multipart upload. Open is called once.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type ImageUseCase struct {
	store ImageStore
}

// NewImageUseCase accepts a nil store; every call then reports the image
// service as unavailable.
func NewImageUseCase(store ImageStore) *ImageUseCase {
	return &ImageUseCase{store: store}
}

func (uc *ImageUseCase) UploadImages(ctx context.Context, uploaderID uint, files []ImageUpload) ([]string, error) {
	if uc.store == nil {
		return nil, errors.ServiceUnavailable("Image storage is not configured")
	}
	if len(files) == 0 {
		return nil, errors.Validation("images", "At least one image is required")
	}
	if len(files) > MaxImagesPerUpload {
		return nil, errors.Validation("images", fmt.Sprintf("At most %d images can be uploaded at once", MaxImagesPerUpload))
	}
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, errors.Validation("images", fmt.Sprintf("%s is not an image", f.Filename))
		}
		if f.Size > MaxImageSize {
			return nil, errors.Validation("images", fmt.Sprintf("%s exceeds the 5MB limit", f.Filename))
		}
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := uc.uploadOne(ctx, f)
		if err != nil {
			// Do not leave half an upload behind.
			for _, uploaded := range urls {
				if delErr := uc.store.DeleteImage(ctx, uploaded); delErr != nil {
					logger.Warn("Failed to remove partial upload %s: %v", uploaded, delErr)
				}
			}
			return nil, errors.Internal("Failed to upload image", err)
		}
		urls = append(urls, url)
	}

	logger.Info("User %d uploaded %d product images", uploaderID, len(urls))
	return urls, nil
}

func (uc *ImageUseCase) uploadOne(ctx context.Context, f ImageUpload) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return uc.store.UploadImage(ctx, src, f.ContentType)
}

func (uc *ImageUseCase) DeleteImage(ctx context.Context, imageURL string) error {
	if uc.store == nil {
		return errors.ServiceUnavailable("Image storage is not configured")
	}
	if strings.TrimSpace(imageURL) == "" {
		return errors.Validation("image_url", "image_url is required")
	}
	if err := uc.store.DeleteImage(ctx, imageURL); err != nil {
		return passThrough("Failed to delete image", err)
	}
	return nil
}
