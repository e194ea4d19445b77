package imaging

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes one pixel of a raster.
//
// Value holds the raw samples (one for gray rasters, three for color). The
// remaining fields interpret them as RGB; a gray sample is used for all
// three components.
type ColorResult struct {
	Row   int      `json:"row"`
	Col   int      `json:"col"`
	Value []int    `json:"value"`
	Hex   string   `json:"hex"`
	RGB   RGBColor `json:"rgb"`
	HSL   HSLColor `json:"hsl"`
}

func toColorful(c RGBColor) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func describe(c RGBColor) (string, HSLColor) {
	cf := toColorful(c)
	h, s, l := cf.Hsl()
	return strings.ToUpper(cf.Hex()), HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

func rgbAt(r *raster.Raster, row, col int) RGBColor {
	if r.IsGray() {
		v := r.Value(row, col, 0)
		return RGBColor{R: v, G: v, B: v}
	}
	return RGBColor{R: r.Value(row, col, 0), G: r.Value(row, col, 1), B: r.Value(row, col, 2)}
}

// SampleColor reads the pixel at (row, col).
func SampleColor(r *raster.Raster, row, col int) (*ColorResult, error) {
	if _, err := r.At(row, col, 0); err != nil {
		return nil, err
	}
	value := make([]int, r.Channels())
	for ch := range value {
		value[ch] = int(r.Value(row, col, ch))
	}
	rgb := rgbAt(r, row, col)
	hex, hsl := describe(rgb)
	return &ColorResult{Row: row, Col: col, Value: value, Hex: hex, RGB: rgb, HSL: hsl}, nil
}

// ColorFrequency is a quantized color and its share of the pixels.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"`
	RGB        RGBColor `json:"rgb"`
}

// DominantColors returns up to count of the most frequent colors after each
// component is quantized down to a multiple of 16. Ties are ordered by hex
// value.
func DominantColors(r *raster.Raster, count int) ([]ColorFrequency, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: color count %d", raster.ErrInvalidParameter, count)
	}
	counts := make(map[RGBColor]int)
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			c := rgbAt(r, y, x)
			counts[RGBColor{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}]++
		}
	}

	total := float64(r.Pixels())
	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		hex, _ := describe(c)
		colors = append(colors, ColorFrequency{Hex: hex, Percentage: float64(n) / total * 100, RGB: c})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})
	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
