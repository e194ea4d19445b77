package raster

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Luma converts one color sample to gray with ITU-R BT.601 weights
// (0.299, 0.587, 0.114) applied to channels 0, 1 and 2.
func Luma(c0, c1, c2 uint8) uint8 {
	v := float64(0.299*float64(c0)) + float64(0.587*float64(c1)) + float64(0.114*float64(c2))
	return SaturateFloat(v)
}

// IsGrayImage reports whether a decoded image carries a single gray channel.
func IsGrayImage(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

// FromImage converts a decoded image into a raster with the requested number
// of channels.
//
// Gray images requested as color replicate the gray value into all three
// channels; color images requested as gray go through Luma. Alpha is
// discarded after the image is composited over black.
func FromImage(img image.Image, channels int) (*Raster, error) {
	b := img.Bounds()
	out, err := New(b.Dx(), b.Dy(), channels)
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < out.height; y++ {
			row := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < out.width; x++ {
				for ch := 0; ch < channels; ch++ {
					out.pix[(y*out.width+x)*channels+ch] = row[x]
				}
			}
		}
		return out, nil
	}

	rgba := clone.AsRGBA(img)
	rb := rgba.Bounds()
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			i := rgba.PixOffset(rb.Min.X+x, rb.Min.Y+y)
			px := rgba.Pix[i : i+3 : i+3]
			dst := (y*out.width + x) * channels
			if channels == GrayChannels {
				out.pix[dst] = Luma(px[0], px[1], px[2])
				continue
			}
			copy(out.pix[dst:dst+3], px)
		}
	}
	return out, nil
}

// ToImage exports the raster as an *image.Gray or an opaque *image.NRGBA.
func (r *Raster) ToImage() image.Image {
	rect := image.Rect(0, 0, r.width, r.height)
	if r.IsGray() {
		g := image.NewGray(rect)
		for y := 0; y < r.height; y++ {
			copy(g.Pix[y*g.Stride:y*g.Stride+r.width], r.pix[y*r.width:(y+1)*r.width])
		}
		return g
	}
	n := image.NewNRGBA(rect)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			src := (y*r.width + x) * 3
			dst := y*n.Stride + x*4
			n.Pix[dst] = r.pix[src]
			n.Pix[dst+1] = r.pix[src+1]
			n.Pix[dst+2] = r.pix[src+2]
			n.Pix[dst+3] = 0xff
		}
	}
	return n
}
