package imaging

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/storage"
)

// Mode selects the channel count of a loaded raster.
type Mode string

const (
	// ModeAuto loads gray files as gray and everything else as color.
	ModeAuto  Mode = ""
	ModeGray  Mode = "gray"
	ModeColor Mode = "color"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAuto, ModeGray, ModeColor:
		return m, nil
	}
	return "", fmt.Errorf("%w: mode %q (want gray or color)", raster.ErrInvalidParameter, s)
}

type decoded struct {
	img    image.Image
	format string
}

// Cache keeps decoded images by location so repeated operations on the same
// file skip I/O and decoding.
//
// Cached images are never modified. Load converts the cached image into a
// fresh Raster on every call, so callers own what they receive.
//
// Cache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear().
type Cache struct {
	mu        sync.RWMutex
	images    map[string]*decoded
	source    storage.Source
	maxPixels int64
}

// NewCache creates an empty cache reading through source. maxPixels bounds
// the size of any decoded image; 0 disables the bound.
func NewCache(source storage.Source, maxPixels int64) *Cache {
	return &Cache{
		images:    make(map[string]*decoded),
		source:    source,
		maxPixels: maxPixels,
	}
}

func (c *Cache) image(ctx context.Context, location string) (*decoded, error) {
	c.mu.RLock()
	if d, ok := c.images[location]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	body, err := c.source.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	img, format, err := Decode(body, c.maxPixels)
	if err != nil {
		return nil, err
	}

	d := &decoded{img: img, format: format}
	c.mu.Lock()
	c.images[location] = d
	c.mu.Unlock()
	return d, nil
}

// Load returns the raster stored at location. With ModeAuto the raster is
// gray when the file is gray and color otherwise.
func (c *Cache) Load(ctx context.Context, location string, mode Mode) (*raster.Raster, error) {
	d, err := c.image(ctx, location)
	if err != nil {
		return nil, err
	}
	channels := raster.ColorChannels
	switch mode {
	case ModeGray:
		channels = raster.GrayChannels
	case ModeAuto:
		if raster.IsGrayImage(d.img) {
			channels = raster.GrayChannels
		}
	}
	return raster.FromImage(d.img, channels)
}

// Clear removes all images from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*decoded)
	c.mu.Unlock()
}

// Evict removes one location from the cache. Unknown locations are ignored.
func (c *Cache) Evict(location string) {
	c.mu.Lock()
	delete(c.images, location)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo describes a stored image without converting it.
type ImageInfo struct {
	Location string `json:"location"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`

	// Format is the decoder name: png, jpeg, gif, bmp, tiff or webp.
	Format string `json:"format"`

	// Gray is true when the file itself stores a single gray channel,
	// which is what ModeAuto loads it as.
	Gray bool `json:"gray"`
}

// Info loads location into the cache and describes it.
func (c *Cache) Info(ctx context.Context, location string) (*ImageInfo, error) {
	d, err := c.image(ctx, location)
	if err != nil {
		return nil, err
	}
	b := d.img.Bounds()
	return &ImageInfo{
		Location: location,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Format:   d.format,
		Gray:     raster.IsGrayImage(d.img),
	}, nil
}
