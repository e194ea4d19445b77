package transform

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Copy returns an independent copy of r.
func Copy(r *raster.Raster) *raster.Raster {
	return r.Clone()
}

// Invert replaces every sample v by 255-v.
func Invert(r *raster.Raster) (*raster.Raster, error) {
	return raster.FromImage(imaging.Invert(r.ToImage()), r.Channels())
}

// Grayscale converts a color raster to gray with raster.Luma. A gray raster
// is returned as a copy.
func Grayscale(r *raster.Raster) (*raster.Raster, error) {
	if r.IsGray() {
		return r.Clone(), nil
	}
	out, err := raster.NewGray(r.Width(), r.Height())
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			out.Set(y, x, 0, raster.Luma(r.Value(y, x, 0), r.Value(y, x, 1), r.Value(y, x, 2)))
		}
	}
	return out, nil
}

// Threshold produces a binary gray raster: 255 where the gray value is at
// least t, 0 elsewhere. Color input is converted with Grayscale first.
func Threshold(r *raster.Raster, t int) (*raster.Raster, error) {
	if t < 0 || t > 255 {
		return nil, fmt.Errorf("%w: threshold %d outside [0,255]", raster.ErrInvalidParameter, t)
	}
	gray, err := Grayscale(r)
	if err != nil {
		return nil, err
	}
	for y := 0; y < gray.Height(); y++ {
		for x := 0; x < gray.Width(); x++ {
			if int(gray.Value(y, x, 0)) >= t {
				gray.Set(y, x, 0, 255)
			} else {
				gray.Set(y, x, 0, 0)
			}
		}
	}
	return gray, nil
}
