package edge

import (
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Edge is the value of a confirmed edge pixel.
const Edge = 255

type point struct{ y, x int }

func checkThresholds(t1, t2 int) error {
	if t1 > t2 {
		return fmt.Errorf("%w: low threshold %d above high threshold %d", raster.ErrInvalidParameter, t1, t2)
	}
	return nil
}

// Hysteresis grows strong edges into weak ones.
//
// Every pixel of r at or above t2 becomes a seed and is set to 255. A
// breadth-first search then visits each 8-connected neighbor once; a
// neighbor whose original value is above t1 is set to 255 and searched in
// turn. Pixels the search never reaches keep their value.
func Hysteresis(r *raster.Raster, t1, t2 int) (*raster.Raster, error) {
	if !r.IsGray() {
		return nil, fmt.Errorf("%w: hysteresis on %d channels", raster.ErrChannelMismatch, r.Channels())
	}
	if err := checkThresholds(t1, t2); err != nil {
		return nil, err
	}

	w, h := r.Width(), r.Height()
	out := r.Clone()
	visited := make([]bool, w*h)
	var queue []point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if int(r.Value(y, x, 0)) >= t2 {
				out.Set(y, x, 0, Edge)
				visited[y*w+x] = true
				queue = append(queue, point{y, x})
			}
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				ny, nx := p.y+dy, p.x+dx
				if ny < 0 || ny >= h || nx < 0 || nx >= w || visited[ny*w+nx] {
					continue
				}
				visited[ny*w+nx] = true
				if int(r.Value(ny, nx, 0)) > t1 {
					out.Set(ny, nx, 0, Edge)
					queue = append(queue, point{ny, nx})
				}
			}
		}
	}
	return out, nil
}

// Finalize resolves the remaining weak pixels in a single raster-order pass
// over a copy of r. Values at or below t1 become 0 and values above t2
// become 255. A value in (t1, t2] becomes 255 when one of its 4-neighbors in
// the copy is above t2, and 0 otherwise; neighbors above and to the left
// have already been finalized at that point. Neighbors outside the raster
// are ignored.
func Finalize(r *raster.Raster, t1, t2 int) (*raster.Raster, error) {
	if !r.IsGray() {
		return nil, fmt.Errorf("%w: finalize on %d channels", raster.ErrChannelMismatch, r.Channels())
	}
	if err := checkThresholds(t1, t2); err != nil {
		return nil, err
	}

	w, h := r.Width(), r.Height()
	out := r.Clone()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(out.Value(y, x, 0))
			if v <= t1 {
				out.Set(y, x, 0, 0)
				continue
			}
			if v > t2 {
				out.Set(y, x, 0, Edge)
				continue
			}
			strong := false
			for _, n := range [4]point{{y - 1, x}, {y + 1, x}, {y, x - 1}, {y, x + 1}} {
				if n.y < 0 || n.y >= h || n.x < 0 || n.x >= w {
					continue
				}
				if int(out.Value(n.y, n.x, 0)) > t2 {
					strong = true
					break
				}
			}
			if strong {
				out.Set(y, x, 0, Edge)
			} else {
				out.Set(y, x, 0, 0)
			}
		}
	}
	return out, nil
}
