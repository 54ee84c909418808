package repository

import (
	"context"
	"image"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves and decodes an image from a URL
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error

	// StoreImage persists encoded image bytes and returns their URL
	StoreImage(ctx context.Context, name string, data []byte, contentType string) (string, error)

	// CanStore reports whether a storage backend is configured
	CanStore() bool
}
