package edge

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Direction is a gradient orientation quantized into one of four bins.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
	Diagonal1
	Diagonal2
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal1:
		return "diagonal1"
	case Diagonal2:
		return "diagonal2"
	}
	return "undefined"
}

const eighth = math.Pi / 8

func within(a, lo, hi float64) bool {
	return a >= lo && a <= hi
}

// Quantize maps an angle in radians to a direction bin. The bins are tested
// in order, bounds inclusive:
//
//	Horizontal  [5pi/8, 7pi/8]  or [-3pi/8, -pi/8]
//	Vertical    [3pi/8, 5pi/8]  or [-5pi/8, -3pi/8]
//	Diagonal1   [pi/8, 3pi/8]   or [-7pi/8, -5pi/8]
//	Diagonal2   everything else
//
// The second result is false for NaN.
func Quantize(angle float64) (Direction, bool) {
	switch {
	case math.IsNaN(angle):
		return 0, false
	case within(angle, 5*eighth, 7*eighth) || within(angle, -3*eighth, -eighth):
		return Horizontal, true
	case within(angle, -5*eighth, -3*eighth) || within(angle, 3*eighth, 5*eighth):
		return Vertical, true
	case within(angle, -7*eighth, -5*eighth) || within(angle, eighth, 3*eighth):
		return Diagonal1, true
	}
	return Diagonal2, true
}

// Palette used by DirectionMap, as channel 0/1/2 triples.
var directionColors = map[Direction][3]uint8{
	Horizontal: {0, 255, 255},
	Vertical:   {0, 0, 255},
	Diagonal1:  {255, 0, 0},
	Diagonal2:  {0, 255, 0},
}

// DirectionColor returns the color DirectionMap paints for d.
func DirectionColor(d Direction) [3]uint8 {
	return directionColors[d]
}

// DirectionMap paints every pixel whose strength reaches threshold with the
// color of its direction bin. Weaker pixels and pixels without a direction
// stay black.
func DirectionMap(g *Gradient, threshold int) (*raster.Raster, error) {
	out, err := raster.NewColor(g.Magnitude.Width(), g.Magnitude.Height())
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			if g.Strength.At(y, x, 0) < float64(threshold) {
				continue
			}
			d, ok := g.Direction(y, x)
			if !ok {
				continue
			}
			c := directionColors[d]
			for ch := 0; ch < 3; ch++ {
				out.Set(y, x, ch, c[ch])
			}
		}
	}
	return out, nil
}
