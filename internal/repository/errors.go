package repository

import "errors"

var (
	// ErrStorageDisabled indicates no result storage backend is configured
	ErrStorageDisabled = errors.New("result storage is not configured")

	// ErrEmptyImage indicates an attempt to store zero bytes
	ErrEmptyImage = errors.New("image data is empty")
)
