package storage

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"strings"

	"go-image-editor/internal/imageio"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// BlobStorage reads source images from and writes results to blob storage
type BlobStorage interface {
	GetImage(ctx context.Context, blobURL string) (image.Image, error)
	PutImage(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Owns(imageURL string) bool
}

type azureStorage struct {
	client    *azblob.Client
	baseURL   string
	container string
	maxBytes  int64
	maxPixels int64
}

// NewAzureStorage creates blob storage for an account. Results are written
// to container; reads accept any container of the account and are bounded
// like HTTP fetches. Zero limits fall back to DefaultFetcherOptions.
func NewAzureStorage(accountName, accountKey, container string, maxBytes, maxPixels int64) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	baseURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(baseURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	defaults := DefaultFetcherOptions()
	if maxBytes <= 0 {
		maxBytes = defaults.MaxBytes
	}
	if maxPixels <= 0 {
		maxPixels = defaults.MaxPixels
	}

	return &azureStorage{
		client:    client,
		baseURL:   baseURL,
		container: container,
		maxBytes:  maxBytes,
		maxPixels: maxPixels,
	}, nil
}

// Owns reports whether imageURL points at this account
func (s *azureStorage) Owns(imageURL string) bool {
	u, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	base, _ := url.Parse(s.baseURL)
	return strings.EqualFold(u.Host, base.Host)
}

func (s *azureStorage) GetImage(ctx context.Context, blobURL string) (image.Image, error) {
	containerName, blobName, err := parseBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, _, err := imageio.DecodeLimited(io.LimitReader(retryReader, s.maxBytes), s.maxPixels)
	return img, err
}

// PutImage uploads data as name and returns a URL GetImage can read back
func (s *azureStorage) PutImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return blobURL(s.baseURL, s.container, name), nil
}

func blobURL(baseURL, container, name string) string {
	return fmt.Sprintf("%s/%s?blob=%s", baseURL, container, url.QueryEscape(name))
}

// parseBlobURL accepts <base>/<container>?blob=<name> and
// <base>/<container>/<name>
func parseBlobURL(blobURL string) (container, name string, err error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}

	path := strings.TrimPrefix(parsedURL.Path, "/")
	if name = parsedURL.Query().Get("blob"); name != "" {
		container = strings.TrimSuffix(path, "/")
	} else {
		container, name, _ = strings.Cut(path, "/")
	}

	if container == "" || name == "" {
		return "", "", fmt.Errorf("invalid blob URL %q: container and blob name are required", blobURL)
	}
	return container, name, nil
}

// routingFetcher sends URLs owned by blob storage to it and the rest to
// the HTTP fetcher
type routingFetcher struct {
	http  ImageFetcher
	blobs BlobStorage
}

// NewRoutingFetcher creates a fetcher that prefers blobs for its own URLs.
// A nil blobs returns httpFetcher unchanged.
func NewRoutingFetcher(httpFetcher ImageFetcher, blobs BlobStorage) ImageFetcher {
	if blobs == nil {
		return httpFetcher
	}
	return &routingFetcher{http: httpFetcher, blobs: blobs}
}

func (f *routingFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if f.blobs.Owns(imageURL) {
		return f.blobs.GetImage(ctx, imageURL)
	}
	return f.http.FetchImage(ctx, imageURL)
}
