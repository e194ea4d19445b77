// Package storage opens raster sources by location: local files, http(s)
// URLs and Azure blobs addressed as azblob://container/path/to/blob.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnsupportedLocation is returned for locations no configured source
// handles.
var ErrUnsupportedLocation = errors.New("unsupported location")

// BlobScheme prefixes Azure blob locations.
const BlobScheme = "azblob://"

// Source opens the encoded bytes behind a location.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// FileSource reads from the local file system.
type FileSource struct{}

// Open opens the file at path.
func (FileSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

// Resolver dispatches a location to the source for its scheme.
type Resolver struct {
	File Source
	HTTP Source
	Blob Source
}

// NewResolver returns a resolver for files and HTTP. Blob is nil until a
// BlobSource is attached.
func NewResolver(httpSource Source) *Resolver {
	return &Resolver{File: FileSource{}, HTTP: httpSource}
}

// Open routes location by its prefix.
func (r *Resolver) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	var src Source
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		src = r.HTTP
	case strings.HasPrefix(location, BlobScheme):
		src = r.Blob
	default:
		src = r.File
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, location)
	}
	return src.Open(ctx, location)
}

// IsRemote reports whether location is fetched over the network.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, BlobScheme)
}
