package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FloatRaster holds float64 samples with the same shape as a Raster. It is
// the intermediate form produced by convolution and gradient computation.
//
// Each channel is one height x width matrix, so plane p's element (row, col)
// is Plane(p).At(row, col).
type FloatRaster struct {
	width  int
	height int
	planes []*mat.Dense
}

// NewFloat allocates a zero-filled float raster.
func NewFloat(width, height, channels int) (*FloatRaster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if channels != GrayChannels && channels != ColorChannels {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrChannelMismatch, channels)
	}
	f := &FloatRaster{width: width, height: height, planes: make([]*mat.Dense, channels)}
	for ch := range f.planes {
		f.planes[ch] = mat.NewDense(height, width, nil)
	}
	return f, nil
}

// Width returns the number of columns.
func (f *FloatRaster) Width() int { return f.width }

// Height returns the number of rows.
func (f *FloatRaster) Height() int { return f.height }

// Channels returns the number of planes.
func (f *FloatRaster) Channels() int { return len(f.planes) }

// Plane returns the matrix backing channel ch.
func (f *FloatRaster) Plane(ch int) *mat.Dense { return f.planes[ch] }

// At returns the sample at (row, col, ch).
func (f *FloatRaster) At(row, col, ch int) float64 {
	return f.planes[ch].At(row, col)
}

// Set stores v at (row, col, ch).
func (f *FloatRaster) Set(row, col, ch int, v float64) {
	f.planes[ch].Set(row, col, v)
}

// Saturate converts every sample to 8 bits: round half to even, then clamp
// into [0, 255]. NaN becomes 0.
func (f *FloatRaster) Saturate() *Raster {
	out := &Raster{width: f.width, height: f.height, channels: len(f.planes), pix: make([]uint8, f.width*f.height*len(f.planes))}
	for ch, p := range f.planes {
		for y := 0; y < f.height; y++ {
			for x := 0; x < f.width; x++ {
				out.pix[(y*f.width+x)*out.channels+ch] = SaturateFloat(p.At(y, x))
			}
		}
	}
	return out
}

// SaturateFloat rounds v half to even and clamps it into the 8-bit range.
func SaturateFloat(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.RoundToEven(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// ToFloat widens every sample to float64.
func (r *Raster) ToFloat() *FloatRaster {
	f := &FloatRaster{width: r.width, height: r.height, planes: make([]*mat.Dense, r.channels)}
	for ch := range f.planes {
		data := make([]float64, r.width*r.height)
		for i := range data {
			data[i] = float64(r.pix[i*r.channels+ch])
		}
		f.planes[ch] = mat.NewDense(r.height, r.width, data)
	}
	return f
}
