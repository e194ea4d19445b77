package raster

import (
	"fmt"
)

// Channel counts of the two raster variants.
const (
	GrayChannels  = 1
	ColorChannels = 3
)

// Raster is a height x width grid of 8-bit samples with either one channel
// (gray) or three channels (color).
//
// Samples are stored row-major and interleaved: the sample for (row, col,
// ch) lives at index (row*width+col)*channels+ch. A Raster is treated as a
// value: every operation in this module reads its input and returns a newly
// allocated output.
type Raster struct {
	width    int
	height   int
	channels int
	pix      []uint8
}

// New allocates a zero-filled raster. Width and height must be positive and
// channels must be GrayChannels or ColorChannels.
func New(width, height, channels int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if channels != GrayChannels && channels != ColorChannels {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrChannelMismatch, channels)
	}
	return &Raster{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]uint8, width*height*channels),
	}, nil
}

// NewGray allocates a zero-filled single channel raster.
func NewGray(width, height int) (*Raster, error) {
	return New(width, height, GrayChannels)
}

// NewColor allocates a zero-filled three channel raster.
func NewColor(width, height int) (*Raster, error) {
	return New(width, height, ColorChannels)
}

// FromRows builds a gray raster from equally long rows.
func FromRows(rows [][]uint8) (*Raster, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", ErrInvalidDimensions)
	}
	r, err := NewGray(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != r.width {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidDimensions, y, len(row), r.width)
		}
		copy(r.pix[y*r.width:], row)
	}
	return r, nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// Channels returns 1 for gray rasters and 3 for color rasters.
func (r *Raster) Channels() int { return r.channels }

// IsGray reports whether the raster has a single channel.
func (r *Raster) IsGray() bool { return r.channels == GrayChannels }

// Pixels returns width*height.
func (r *Raster) Pixels() int { return r.width * r.height }

// SameShape reports whether both rasters have equal extents and channel count.
func (r *Raster) SameShape(o *Raster) bool {
	return r.width == o.width && r.height == o.height && r.channels == o.channels
}

// At returns the sample at (row, col, ch) or ErrOutOfRange.
func (r *Raster) At(row, col, ch int) (uint8, error) {
	if row < 0 || row >= r.height || col < 0 || col >= r.width || ch < 0 || ch >= r.channels {
		return 0, fmt.Errorf("%w: (%d,%d,%d) outside %dx%dx%d",
			ErrOutOfRange, row, col, ch, r.height, r.width, r.channels)
	}
	return r.pix[(row*r.width+col)*r.channels+ch], nil
}

// Clamped returns the sample at (row, col, ch) after clamping row and col into
// the grid, which replicates the edge pixels outward.
func (r *Raster) Clamped(row, col, ch int) uint8 {
	return r.pix[(clamp(row, 0, r.height-1)*r.width+clamp(col, 0, r.width-1))*r.channels+ch]
}

// Value returns the sample at (row, col, ch) without a bounds check beyond the
// one the runtime performs on the backing slice.
func (r *Raster) Value(row, col, ch int) uint8 {
	return r.pix[(row*r.width+col)*r.channels+ch]
}

// Set stores v at (row, col, ch).
func (r *Raster) Set(row, col, ch int, v uint8) {
	r.pix[(row*r.width+col)*r.channels+ch] = v
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.pix))
	copy(pix, r.pix)
	return &Raster{width: r.width, height: r.height, channels: r.channels, pix: pix}
}

// Channel extracts one channel as a gray raster.
func (r *Raster) Channel(ch int) (*Raster, error) {
	if ch < 0 || ch >= r.channels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrChannelMismatch, ch, r.channels)
	}
	out := &Raster{width: r.width, height: r.height, channels: GrayChannels, pix: make([]uint8, r.width*r.height)}
	for i := range out.pix {
		out.pix[i] = r.pix[i*r.channels+ch]
	}
	return out, nil
}

// Merge interleaves equally sized gray planes into one raster.
func Merge(planes ...*Raster) (*Raster, error) {
	if len(planes) != GrayChannels && len(planes) != ColorChannels {
		return nil, fmt.Errorf("%w: cannot merge %d planes", ErrChannelMismatch, len(planes))
	}
	first := planes[0]
	out, err := New(first.width, first.height, len(planes))
	if err != nil {
		return nil, err
	}
	for ch, p := range planes {
		if !p.IsGray() {
			return nil, fmt.Errorf("%w: plane %d has %d channels", ErrChannelMismatch, ch, p.channels)
		}
		if p.width != first.width || p.height != first.height {
			return nil, fmt.Errorf("%w: plane %d is %dx%d, want %dx%d",
				ErrDimensionMismatch, ch, p.width, p.height, first.width, first.height)
		}
		for i, v := range p.pix {
			out.pix[i*out.channels+ch] = v
		}
	}
	return out, nil
}

// Crop copies the height x width block whose top-left corner is (row, col).
func Crop(r *Raster, row, col, height, width int) (*Raster, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: crop %dx%d", ErrInvalidDimensions, width, height)
	}
	if row < 0 || col < 0 || row+height > r.height || col+width > r.width {
		return nil, fmt.Errorf("%w: crop (%d,%d)+%dx%d outside %dx%d",
			ErrOutOfRange, row, col, width, height, r.width, r.height)
	}
	out := &Raster{width: width, height: height, channels: r.channels, pix: make([]uint8, width*height*r.channels)}
	stride := width * r.channels
	for y := 0; y < height; y++ {
		src := ((row+y)*r.width + col) * r.channels
		copy(out.pix[y*stride:(y+1)*stride], r.pix[src:src+stride])
	}
	return out, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
