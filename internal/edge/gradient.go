package edge

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Gradient is the result of a Sobel pass.
type Gradient struct {
	// Magnitude is the gray raster of rounded strengths, with every value
	// at or below the threshold set to 0.
	Magnitude *raster.Raster

	// Strength holds the unrounded gradient strength per pixel.
	Strength *raster.FloatRaster

	// Angle holds the gradient orientation in radians, NaN where the
	// strength is zero.
	Angle *raster.FloatRaster
}

// Direction returns the quantized direction at (row, col). The second result
// is false when the direction is undefined.
func (g *Gradient) Direction(row, col int) (Direction, bool) {
	if g.Strength.At(row, col, 0) == 0 {
		return 0, false
	}
	return Quantize(g.Angle.At(row, col, 0))
}

// sobel pads r and returns the horizontal and vertical derivatives aligned
// with r's own coordinates (offset by one in the returned planes).
func sobel(r *raster.Raster) (sx, sy *raster.FloatRaster, err error) {
	padded, err := raster.MirrorPad(r, SobelSize)
	if err != nil {
		return nil, nil, fmt.Errorf("gradient: %w", err)
	}
	if sx, err = ApplyKernel(padded, SobelX()); err != nil {
		return nil, nil, err
	}
	if sy, err = ApplyKernel(padded, SobelY()); err != nil {
		return nil, nil, err
	}
	return sx, sy, nil
}

func newGradient(width, height int) (*Gradient, error) {
	mag, err := raster.NewGray(width, height)
	if err != nil {
		return nil, err
	}
	strength, err := raster.NewFloat(width, height, raster.GrayChannels)
	if err != nil {
		return nil, err
	}
	angle, err := raster.NewFloat(width, height, raster.GrayChannels)
	if err != nil {
		return nil, err
	}
	return &Gradient{Magnitude: mag, Strength: strength, Angle: angle}, nil
}

func (g *Gradient) store(row, col int, strength, angle float64, threshold int) {
	g.Strength.Set(row, col, 0, strength)
	if strength == 0 {
		angle = math.NaN()
	}
	g.Angle.Set(row, col, 0, angle)
	v := raster.SaturateFloat(math.Abs(strength))
	if int(v) <= threshold {
		v = 0
	}
	g.Magnitude.Set(row, col, 0, v)
}

// GradientGray computes Sobel derivatives of a gray raster. The strength is
// sqrt(Sx^2 + Sy^2) and the angle atan2(Sy, Sx).
func GradientGray(r *raster.Raster, threshold int) (*Gradient, error) {
	if !r.IsGray() {
		return nil, fmt.Errorf("%w: gray gradient on %d channels", raster.ErrChannelMismatch, r.Channels())
	}
	sx, sy, err := sobel(r)
	if err != nil {
		return nil, err
	}
	g, err := newGradient(r.Width(), r.Height())
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			a := sx.At(y+1, x+1, 0)
			b := sy.At(y+1, x+1, 0)
			g.store(y, x, math.Sqrt(float64(a*a)+float64(b*b)), math.Atan2(b, a), threshold)
		}
	}
	return g, nil
}

// GradientColor computes the gradient of a color raster from the structure
// tensor summed over channels:
//
//	Fxx = sum Sx^2, Fyy = sum Sy^2, Fxy = sum Sx*Sy
//
// The strength is the square root of the tensor's largest eigenvalue and the
// angle is 0.5*atan2(2*Fxy, Fxx-Fyy).
func GradientColor(r *raster.Raster, threshold int) (*Gradient, error) {
	if r.IsGray() {
		return nil, fmt.Errorf("%w: color gradient on a gray raster", raster.ErrChannelMismatch)
	}
	sx, sy, err := sobel(r)
	if err != nil {
		return nil, err
	}
	g, err := newGradient(r.Width(), r.Height())
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			var fxx, fyy, fxy float64
			for ch := 0; ch < r.Channels(); ch++ {
				a := sx.At(y+1, x+1, ch)
				b := sy.At(y+1, x+1, ch)
				fxx += float64(a * a)
				fyy += float64(b * b)
				fxy += float64(a * b)
			}
			diff := fxx - fyy
			disc := math.Sqrt(float64(diff*diff) + float64(4*float64(fxy*fxy)))
			lambda := math.Sqrt(float64(0.5 * (fxx + fyy + disc)))
			g.store(y, x, lambda, 0.5*math.Atan2(2*fxy, diff), threshold)
		}
	}
	return g, nil
}

// ComputeGradient dispatches on the channel count of r.
func ComputeGradient(r *raster.Raster, threshold int) (*Gradient, error) {
	if r.IsGray() {
		return GradientGray(r, threshold)
	}
	return GradientColor(r, threshold)
}
