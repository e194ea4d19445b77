package edge

import (
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Params configures the edge pipeline.
type Params struct {
	// Threshold gates the gradient magnitude and non-maxima suppression.
	Threshold int
	// Low and High are the hysteresis thresholds t1 <= t2.
	Low  int
	High int
}

// DefaultParams returns the thresholds used when a caller supplies none.
func DefaultParams() Params {
	return Params{Threshold: 50, Low: 30, High: 100}
}

// Stages keeps every intermediate raster of one pipeline run.
type Stages struct {
	Smoothed   *raster.Raster
	Gradient   *Gradient
	Suppressed *raster.Raster
	Linked     *raster.Raster
	Edges      *raster.Raster
}

// Run executes smoothing, gradient, non-maxima suppression, hysteresis and
// finalization in order. The gradient variant follows the channel count of
// r; every later stage works on the gray magnitude.
func Run(r *raster.Raster, p Params) (*Stages, error) {
	if err := checkThresholds(p.Low, p.High); err != nil {
		return nil, err
	}
	s := &Stages{}
	var err error
	if s.Smoothed, err = Smooth(r); err != nil {
		return nil, err
	}
	if s.Gradient, err = ComputeGradient(s.Smoothed, p.Threshold); err != nil {
		return nil, err
	}
	s.Suppressed = SuppressNonMaxima(s.Gradient, p.Threshold)
	if s.Linked, err = Hysteresis(s.Suppressed, p.Low, p.High); err != nil {
		return nil, err
	}
	if s.Edges, err = Finalize(s.Linked, p.Low, p.High); err != nil {
		return nil, err
	}
	return s, nil
}

// CannyGray detects edges in a gray raster and returns a binary gray raster.
func CannyGray(r *raster.Raster, p Params) (*raster.Raster, error) {
	if !r.IsGray() {
		return nil, fmt.Errorf("%w: gray canny on %d channels", raster.ErrChannelMismatch, r.Channels())
	}
	s, err := Run(r, p)
	if err != nil {
		return nil, err
	}
	return s.Edges, nil
}

// CannyColor detects edges in a color raster using the structure tensor
// gradient. The result is a binary gray raster.
func CannyColor(r *raster.Raster, p Params) (*raster.Raster, error) {
	if r.IsGray() {
		return nil, fmt.Errorf("%w: color canny on a gray raster", raster.ErrChannelMismatch)
	}
	s, err := Run(r, p)
	if err != nil {
		return nil, err
	}
	return s.Edges, nil
}
