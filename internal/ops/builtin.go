package ops

import (
	"github.com/ironsheep/image-edit-mcp/internal/edge"
	"github.com/ironsheep/image-edit-mcp/internal/filter"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/segment"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

func both(f Func) (Func, Func) { return f, f }

func init() {
	copyGray, copyColor := both(func(r *raster.Raster, _ Params) (*raster.Raster, error) {
		return transform.Copy(r), nil
	})
	register(Operation{Name: "copy", Description: "Copy the raster unchanged", Gray: copyGray, Color: copyColor})

	g, c := both(func(r *raster.Raster, _ Params) (*raster.Raster, error) { return transform.Invert(r) })
	register(Operation{Name: "invert", Description: "Replace every sample v by 255-v", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, _ Params) (*raster.Raster, error) { return transform.Grayscale(r) })
	register(Operation{Name: "grayscale", Description: "Convert to gray with BT.601 weights", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, p Params) (*raster.Raster, error) { return transform.Threshold(r, p.Value) })
	register(Operation{Name: "threshold", Description: "Binary threshold: gray >= value becomes 255", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, _ Params) (*raster.Raster, error) { return transform.Mirror(r) })
	register(Operation{Name: "mirror", Description: "Flip around the vertical axis", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, p Params) (*raster.Raster, error) {
		return transform.Rotate(r, transform.Rotation(p.Rotation))
	})
	register(Operation{Name: "rotate", Description: "Rotate a quarter turn clockwise or anticlockwise", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, p Params) (*raster.Raster, error) { return transform.Pad(r, p.Kernel) })
	register(Operation{Name: "pad", Description: "Mirror pad by (kernel-1)/2 on every side", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, _ Params) (*raster.Raster, error) { return edge.Smooth(r) })
	register(Operation{Name: "gauss", Description: "5x5 Gaussian smoothing", Gray: g, Color: c})

	g, c = both(sobel)
	register(Operation{Name: "sobel", Description: "Thresholded gradient magnitude of the smoothed raster", Gray: g, Color: c})

	g, c = both(angle)
	register(Operation{Name: "angle", Description: "Quantized gradient direction map", Gray: g, Color: c})

	g, c = both(nonMaxima)
	register(Operation{Name: "nonmaxima", Description: "Gradient magnitude after non-maxima suppression", Gray: g, Color: c})

	g, c = both(func(r *raster.Raster, p Params) (*raster.Raster, error) {
		s, err := edge.Run(r, edgeParams(p))
		if err != nil {
			return nil, err
		}
		return s.Linked, nil
	})
	register(Operation{Name: "hysteresis", Description: "Hysteresis thresholding of the suppressed magnitude", Gray: g, Color: c})

	register(Operation{
		Name:        "canny",
		Description: "Full Canny edge detection",
		Gray:        func(r *raster.Raster, p Params) (*raster.Raster, error) { return edge.CannyGray(r, edgeParams(p)) },
		Color:       func(r *raster.Raster, p Params) (*raster.Raster, error) { return edge.CannyColor(r, edgeParams(p)) },
	})

	register(Operation{
		Name:        "otsu",
		Description: "Three class Otsu segmentation",
		Gray: func(r *raster.Raster, _ Params) (*raster.Raster, error) {
			out, _, err := segment.Otsu(r)
			return out, err
		},
	})

	register(Operation{
		Name:        "median",
		Description: "Median filter with an odd kernel",
		Gray:        func(r *raster.Raster, p Params) (*raster.Raster, error) { return filter.MedianGray(r, p.Kernel) },
		Color:       func(r *raster.Raster, p Params) (*raster.Raster, error) { return filter.MedianColor(r, p.Kernel) },
	})
}

func edgeParams(p Params) edge.Params {
	return edge.Params{Threshold: p.Threshold, Low: p.T1, High: p.T2}
}

func smoothedGradient(r *raster.Raster, threshold int) (*edge.Gradient, error) {
	s, err := edge.Smooth(r)
	if err != nil {
		return nil, err
	}
	return edge.ComputeGradient(s, threshold)
}

func sobel(r *raster.Raster, p Params) (*raster.Raster, error) {
	g, err := smoothedGradient(r, p.Threshold)
	if err != nil {
		return nil, err
	}
	return g.Magnitude, nil
}

func angle(r *raster.Raster, p Params) (*raster.Raster, error) {
	g, err := smoothedGradient(r, p.Threshold)
	if err != nil {
		return nil, err
	}
	return edge.DirectionMap(g, p.Threshold)
}

func nonMaxima(r *raster.Raster, p Params) (*raster.Raster, error) {
	g, err := smoothedGradient(r, p.Threshold)
	if err != nil {
		return nil, err
	}
	return edge.SuppressNonMaxima(g, p.Threshold), nil
}
