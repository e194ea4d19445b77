package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// ErrTooLarge is returned when an image exceeds the configured pixel budget.
var ErrTooLarge = errors.New("image too large")

// Decode reads an encoded image, rejects it before full decoding when it
// has more than maxPixels pixels (0 disables the check), and applies the
// EXIF orientation. It returns the image and the format name.
func Decode(r io.Reader, maxPixels int64) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Save writes r to path. The format follows the file extension.
func Save(r *raster.Raster, path string) error {
	if err := imaging.Save(r.ToImage(), path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Result is a raster encoded for transport.
type Result struct {
	// Width of the output raster in pixels.
	Width int `json:"width"`

	// Height of the output raster in pixels.
	Height int `json:"height"`

	// Channels is 1 for gray and 3 for color output.
	Channels int `json:"channels"`

	// ImageBase64 is the raster encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`

	// SavedTo is the output path when the caller asked for one.
	SavedTo string `json:"saved_to,omitempty"`
}

// Encode renders r as a base64 PNG result.
func Encode(r *raster.Raster) (*Result, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.ToImage(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &Result{
		Width:       r.Width(),
		Height:      r.Height(),
		Channels:    r.Channels(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
