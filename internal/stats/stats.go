// Package stats computes per-channel histograms, gray-level distributions
// and first and second moments of rasters.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Levels is the number of distinct 8-bit sample values.
const Levels = 256

// Histogram counts the occurrences of each sample value in one channel.
type Histogram [Levels]int

// Distribution is a histogram normalised by the pixel count.
type Distribution [Levels]float64

// levels holds 0..255 as float64, the abscissa for weighted moments.
var levels = func() []float64 {
	l := make([]float64, Levels)
	for i := range l {
		l[i] = float64(i)
	}
	return l
}()

// Compute counts the samples of one channel.
func Compute(r *raster.Raster, channel int) (Histogram, error) {
	var h Histogram
	if channel < 0 || channel >= r.Channels() {
		return h, fmt.Errorf("%w: channel %d of %d", raster.ErrChannelMismatch, channel, r.Channels())
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			h[r.Value(y, x, channel)]++
		}
	}
	return h, nil
}

// Total returns the number of samples counted.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Weights returns the counts as float64, suitable for gonum/stat weights.
func (h *Histogram) Weights() []float64 {
	w := make([]float64, Levels)
	for i, c := range h {
		w[i] = float64(c)
	}
	return w
}

// Probabilities divides every count by totalPixels.
func Probabilities(h Histogram, totalPixels int) (Distribution, error) {
	var p Distribution
	if totalPixels <= 0 {
		return p, fmt.Errorf("%w: total pixel count %d", raster.ErrInvalidParameter, totalPixels)
	}
	n := float64(totalPixels)
	for i, c := range h {
		p[i] = float64(c) / n
	}
	return p, nil
}

// Sum returns the total probability over levels lo..hi inclusive.
func (p *Distribution) Sum(lo, hi int) float64 {
	s := 0.0
	for i := lo; i <= hi; i++ {
		s += p[i]
	}
	return s
}

// WeightedMean returns sum(i*p[i]) / sum(p[i]) over lo..hi inclusive. It is
// NaN when the range carries no probability.
func WeightedMean(p Distribution, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > Levels-1 {
		hi = Levels - 1
	}
	if lo > hi {
		return math.NaN()
	}
	return stat.Mean(levels[lo:hi+1], p[lo:hi+1])
}

// Mean returns the arithmetic mean of every channel.
func Mean(r *raster.Raster) []float64 {
	means := make([]float64, r.Channels())
	for ch := range means {
		h, _ := Compute(r, ch)
		means[ch] = stat.Mean(levels, h.Weights())
	}
	return means
}

// Variance returns the population variance of every channel about the
// supplied per-channel mean.
func Variance(r *raster.Raster, mean []float64) ([]float64, error) {
	if len(mean) != r.Channels() {
		return nil, fmt.Errorf("%w: %d means for %d channels", raster.ErrChannelMismatch, len(mean), r.Channels())
	}
	vars := make([]float64, r.Channels())
	for ch := range vars {
		h, _ := Compute(r, ch)
		vars[ch] = stat.MomentAbout(2, levels, mean[ch], h.Weights())
	}
	return vars, nil
}

// ChannelSummary describes one channel of a raster.
type ChannelSummary struct {
	Channel   int       `json:"channel"`
	Mean      float64   `json:"mean"`
	Variance  float64   `json:"variance"`
	Min       int       `json:"min"`
	Max       int       `json:"max"`
	Histogram Histogram `json:"histogram"`
}

// Summary is the report produced by Summarize.
type Summary struct {
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Channels []ChannelSummary `json:"channels"`
}

// Summarize computes histogram, extrema, mean and variance per channel.
func Summarize(r *raster.Raster) Summary {
	s := Summary{Width: r.Width(), Height: r.Height(), Channels: make([]ChannelSummary, r.Channels())}
	for ch := range s.Channels {
		h, _ := Compute(r, ch)
		w := h.Weights()
		mean := stat.Mean(levels, w)
		cs := ChannelSummary{
			Channel:   ch,
			Mean:      mean,
			Variance:  stat.MomentAbout(2, levels, mean, w),
			Min:       -1,
			Histogram: h,
		}
		for i, c := range h {
			if c == 0 {
				continue
			}
			if cs.Min < 0 {
				cs.Min = i
			}
			cs.Max = i
		}
		s.Channels[ch] = cs
	}
	return s
}
