package edge

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// neighbors returns the two pixels compared against (y, x) for a direction.
func neighbors(d Direction, y, x int) (y1, x1, y2, x2 int) {
	switch d {
	case Horizontal:
		return y, x - 1, y, x + 1
	case Vertical:
		return y - 1, x, y + 1, x
	case Diagonal1:
		return y - 1, x - 1, y + 1, x + 1
	default:
		return y - 1, x + 1, y + 1, x - 1
	}
}

// SuppressNonMaxima thins the gradient magnitude to ridges one pixel wide.
//
// The result starts as a copy of g.Magnitude and is updated in raster order
// over the interior rows and columns. A pixel is examined only when its
// current value in the result is at least threshold and its direction is
// defined. It is zeroed unless its strength is the maximum of itself and
// its two neighbors along the direction, and ties with the first neighbor
// zero it as well.
//
// For Diagonal1 the neighbors to the right, (y, x+1), and below right,
// (y+1, x+1), are also zeroed when their strength equals the window maximum.
func SuppressNonMaxima(g *Gradient, threshold int) *raster.Raster {
	out := g.Magnitude.Clone()
	s := g.Strength.Plane(0)
	for y := 1; y < out.Height()-1; y++ {
		for x := 1; x < out.Width()-1; x++ {
			if int(out.Value(y, x, 0)) < threshold {
				continue
			}
			d, ok := g.Direction(y, x)
			if !ok {
				continue
			}
			y1, x1, y2, x2 := neighbors(d, y, x)
			center, n1, n2 := s.At(y, x), s.At(y1, x1), s.At(y2, x2)
			m := math.Max(center, math.Max(n1, n2))

			if d == Diagonal1 && s.At(y, x+1) == m {
				out.Set(y, x+1, 0, 0)
			}
			if m == n1 || m != center {
				out.Set(y, x, 0, 0)
			}
			if d == Diagonal1 && s.At(y+1, x+1) == m {
				out.Set(y+1, x+1, 0, 0)
			}
		}
	}
	return out
}
