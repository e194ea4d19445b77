package transform

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/stats"
)

// Mirror flips r around its vertical axis.
func Mirror(r *raster.Raster) (*raster.Raster, error) {
	return raster.FromImage(imaging.FlipH(r.ToImage()), r.Channels())
}

// Rotation is a quarter turn direction.
type Rotation string

const (
	Clockwise     Rotation = "clockwise"
	AntiClockwise Rotation = "anticlockwise"
)

// Rotate turns r by 90 degrees. The output is height x width.
func Rotate(r *raster.Raster, dir Rotation) (*raster.Raster, error) {
	var img *image.NRGBA
	switch dir {
	case Clockwise:
		img = imaging.Rotate270(r.ToImage())
	case AntiClockwise:
		img = imaging.Rotate90(r.ToImage())
	default:
		return nil, fmt.Errorf("%w: unknown rotation %q", raster.ErrInvalidParameter, dir)
	}
	return raster.FromImage(img, r.Channels())
}

// CropResult is a cropped raster with the statistics of the crop.
type CropResult struct {
	Raster   *raster.Raster
	Mean     []float64
	Variance []float64
}

// CropRegion copies the region from corner (x1, y1) inclusive to (x2, y2)
// exclusive and reports the mean and variance of each channel of the crop.
func CropRegion(r *raster.Raster, x1, y1, x2, y2 int) (*CropResult, error) {
	if x1 < 0 || y1 < 0 || x2 > r.Width() || y2 > r.Height() {
		return nil, fmt.Errorf("%w: crop region (%d,%d)-(%d,%d) outside %dx%d",
			raster.ErrOutOfRange, x1, y1, x2, y2, r.Width(), r.Height())
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("%w: x1 must be < x2 and y1 must be < y2", raster.ErrInvalidDimensions)
	}
	c, err := raster.Crop(r, y1, x1, y2-y1, x2-x1)
	if err != nil {
		return nil, err
	}
	mean := stats.Mean(c)
	variance, err := stats.Variance(c, mean)
	if err != nil {
		return nil, err
	}
	return &CropResult{Raster: c, Mean: mean, Variance: variance}, nil
}

// NamedRegion resolves a region name such as "top-left" or "center" to
// corner coordinates inside a width x height raster.
func NamedRegion(name string, width, height int) (x1, y1, x2, y2 int, err error) {
	midX, midY := width/2, height/2
	switch name {
	case "top-left":
		return 0, 0, midX, midY, nil
	case "top-right":
		return midX, 0, width, midY, nil
	case "bottom-left":
		return 0, midY, midX, height, nil
	case "bottom-right":
		return midX, midY, width, height, nil
	case "top-half":
		return 0, 0, width, midY, nil
	case "bottom-half":
		return 0, midY, width, height, nil
	case "left-half":
		return 0, 0, midX, height, nil
	case "right-half":
		return midX, 0, width, height, nil
	case "center":
		qW, qH := width/4, height/4
		return qW, qH, width - qW, height - qH, nil
	}
	return 0, 0, 0, 0, fmt.Errorf("%w: unknown region %q", raster.ErrInvalidParameter, name)
}

// Pad mirror pads r for a kernel of the given size.
func Pad(r *raster.Raster, kernelSize int) (*raster.Raster, error) {
	return raster.MirrorPad(r, kernelSize)
}
