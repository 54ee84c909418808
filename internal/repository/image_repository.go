package repository

import (
	"context"
	"fmt"
	"image"

	"go-image-editor/internal/storage"
	"go-image-editor/pkg/validation"
)

// imageRepository implements ImageRepository on top of the storage layer
type imageRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
	blobs     storage.BlobStorage
}

// NewImageRepository creates an image repository. blobs may be nil, in
// which case StoreImage fails with ErrStorageDisabled.
func NewImageRepository(fetcher storage.ImageFetcher, validator *validation.URLValidator, blobs storage.BlobStorage) ImageRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &imageRepository{
		fetcher:   storage.NewRoutingFetcher(fetcher, blobs),
		validator: validator,
		blobs:     blobs,
	}
}

// FetchImage retrieves an image from a URL
func (r *imageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, imageURL)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *imageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}

func (r *imageRepository) StoreImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if r.blobs == nil {
		return "", ErrStorageDisabled
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}

	storedURL, err := r.blobs.PutImage(ctx, name, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", name, err)
	}
	return storedURL, nil
}

func (r *imageRepository) CanStore() bool {
	return r.blobs != nil
}
