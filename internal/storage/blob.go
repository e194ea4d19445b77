package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobSource downloads blobs from one Azure storage account.
type BlobSource struct {
	client *azblob.Client
}

// NewBlobSource authenticates with a shared account key.
func NewBlobSource(accountName, accountKey string) (*BlobSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credentials: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &BlobSource{client: client}, nil
}

// ParseBlobLocation splits azblob://container/path/to/blob.
func ParseBlobLocation(location string) (container, blob string, err error) {
	rest, ok := strings.CutPrefix(location, BlobScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedLocation, location)
	}
	container, blob, ok = strings.Cut(rest, "/")
	if !ok || container == "" || blob == "" {
		return "", "", fmt.Errorf("invalid blob location %q: want %scontainer/blob", location, BlobScheme)
	}
	return container, blob, nil
}

// Open streams the blob named by location.
func (s *BlobSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	container, blob, err := ParseBlobLocation(location)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return resp.Body, nil
}
