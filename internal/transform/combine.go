package transform

import (
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Combine places left and right next to each other in a color raster of
// size (2*maxWidth + border) x maxHeight. Each input is centered inside its
// maxWidth x maxHeight cell; gray inputs are promoted to color. Uncovered
// pixels, the border included, are black.
func Combine(left, right *raster.Raster, border int) (*raster.Raster, error) {
	if border < 0 {
		return nil, fmt.Errorf("%w: negative border %d", raster.ErrInvalidParameter, border)
	}
	maxW := max(left.Width(), right.Width())
	maxH := max(left.Height(), right.Height())
	out, err := raster.NewColor(2*maxW+border, maxH)
	if err != nil {
		return nil, err
	}
	place(out, left, 0, maxW, maxH)
	place(out, right, maxW+border, maxW, maxH)
	return out, nil
}

func place(dst, src *raster.Raster, offsetX, cellW, cellH int) {
	dy := (cellH - src.Height()) / 2
	dx := (cellW-src.Width())/2 + offsetX
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			for ch := 0; ch < raster.ColorChannels; ch++ {
				sc := ch
				if src.IsGray() {
					sc = 0
				}
				dst.Set(y+dy, x+dx, ch, src.Value(y, x, sc))
			}
		}
	}
}
