package raster

import "fmt"

// PadSize returns the border width (kernelSize-1)/2 used for a kernel.
func PadSize(kernelSize int) int {
	return (kernelSize - 1) / 2
}

// MirrorPad returns a raster grown by p = (kernelSize-1)/2 on every side.
//
// The center is a verbatim copy. Border samples reflect the input across each
// edge, the edge sample included:
//
//	padded[row, b]       = in[row, p-1-b]
//	padded[row, w+p+b]   = in[row, w-1-b]
//
// and likewise for rows; the corner blocks reflect across both axes. When p
// exceeds an extent the reflection repeats, so a single row pads to copies
// of itself. A kernelSize of 1 or 2 yields p = 0 and a plain copy.
func MirrorPad(r *Raster, kernelSize int) (*Raster, error) {
	if kernelSize < 0 {
		return nil, fmt.Errorf("%w: negative kernel size %d", ErrInvalidDimensions, kernelSize)
	}
	p := PadSize(kernelSize)
	if p <= 0 {
		return r.Clone(), nil
	}
	out, err := New(r.width+2*p, r.height+2*p, r.channels)
	if err != nil {
		return nil, err
	}

	cols := make([]int, out.width)
	for c := range cols {
		cols[c] = reflect(c, r.width, p)
	}
	for y := 0; y < out.height; y++ {
		sy := reflect(y, r.height, p)
		for x := 0; x < out.width; x++ {
			src := (sy*r.width + cols[x]) * r.channels
			dst := (y*out.width + x) * out.channels
			copy(out.pix[dst:dst+out.channels], r.pix[src:src+r.channels])
		}
	}
	return out, nil
}

// reflect maps a padded coordinate back to its source coordinate. The
// source is mirrored with period 2n, edge sample included.
func reflect(i, n, p int) int {
	m := (i - p) % (2 * n)
	if m < 0 {
		m += 2 * n
	}
	if m >= n {
		return 2*n - 1 - m
	}
	return m
}
