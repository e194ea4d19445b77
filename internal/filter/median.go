// Package filter implements neighborhood filters over rasters.
package filter

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/stats"
)

type histogram [stats.Levels]int

func (h *histogram) add(o *histogram) {
	for i, c := range o {
		h[i] += c
	}
}

func (h *histogram) sub(o *histogram) {
	for i, c := range o {
		h[i] -= c
	}
}

// rank returns the first level whose running count exceeds n.
func (h *histogram) rank(n int) uint8 {
	cum := 0
	for i, c := range h {
		cum += c
		if cum > n {
			return uint8(i)
		}
	}
	return stats.Levels - 1
}

func checkKernel(k int) error {
	if k <= 0 || k%2 == 0 {
		return fmt.Errorf("%w: median kernel must be odd and positive, got %d", raster.ErrInvalidParameter, k)
	}
	return nil
}

// MedianGray replaces every sample by the median of the k x k window around
// it. Pixels outside the raster take the value of the nearest edge pixel.
//
// One histogram is kept per column for the current vertical window, and a
// combined histogram of k column histograms slides along each row, so the
// cost per pixel does not depend on k.
func MedianGray(r *raster.Raster, k int) (*raster.Raster, error) {
	if err := checkKernel(k); err != nil {
		return nil, err
	}
	if !r.IsGray() {
		return nil, fmt.Errorf("%w: gray median on %d channels", raster.ErrChannelMismatch, r.Channels())
	}

	w, h := r.Width(), r.Height()
	rad := k / 2
	half := k * k / 2
	out := r.Clone()
	cols := make([]histogram, w)

	for i := -rad; i < rad; i++ {
		for x := 0; x < w; x++ {
			cols[x][r.Clamped(i, x, 0)]++
		}
	}

	var window histogram
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cols[x][r.Clamped(y+rad, x, 0)]++
		}

		window = histogram{}
		for j := -rad; j < rad; j++ {
			window.add(&cols[max(0, j)])
		}
		for x := 0; x < w; x++ {
			window.add(&cols[min(w-1, x+rad)])
			out.Set(y, x, 0, window.rank(half))
			window.sub(&cols[max(0, x-rad)])
		}

		for x := 0; x < w; x++ {
			cols[x][r.Clamped(y-rad, x, 0)]--
		}
	}
	return out, nil
}

// MedianColor filters each channel independently with MedianGray. The
// channels run concurrently; each writes only its own plane.
func MedianColor(r *raster.Raster, k int) (*raster.Raster, error) {
	if err := checkKernel(k); err != nil {
		return nil, err
	}
	if r.IsGray() {
		return nil, fmt.Errorf("%w: color median on a gray raster", raster.ErrChannelMismatch)
	}

	planes := make([]*raster.Raster, r.Channels())
	var g errgroup.Group
	for ch := range planes {
		g.Go(func() error {
			in, err := r.Channel(ch)
			if err != nil {
				return err
			}
			planes[ch], err = MedianGray(in, k)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raster.Merge(planes...)
}
