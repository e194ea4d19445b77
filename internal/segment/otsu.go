// Package segment splits gray rasters into classes by global thresholds.
package segment

import (
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/stats"
)

// Output levels of the three classes.
const (
	LowClass  = 0
	MidClass  = 128
	HighClass = 255
)

// Thresholds separates three classes: values <= Low, values in (Low, High]
// and values > High.
type Thresholds struct {
	Low  int `json:"t1"`
	High int `json:"t2"`
	// Fallback is set when no split had positive between-class variance
	// and both thresholds were taken from the mean occupied level.
	Fallback bool `json:"fallback"`
}

// OtsuThresholds finds the pair 0 <= t1 < t2 <= 255 maximizing the
// between-class variance
//
//	w1*(mu1-muT)^2 + w2*(mu2-muT)^2 + w3*(mu3-muT)^2
//
// with classes [0,t1], (t1,t2] and (t2,255]. Splits that leave a class empty
// are skipped. Only a strictly larger variance replaces the current best,
// so the first maximum in (t1, t2) order wins.
//
// When nothing beats a variance of 0, both thresholds are set to the integer
// mean of the levels with non-zero probability and Fallback is true.
func OtsuThresholds(p stats.Distribution) Thresholds {
	var cumP, cumM [stats.Levels]float64
	var a, b float64
	for i := 0; i < stats.Levels; i++ {
		a += p[i]
		b += float64(float64(i) * p[i])
		cumP[i] = a
		cumM[i] = b
	}
	muT := stats.WeightedMean(p, 0, stats.Levels-1)
	last := stats.Levels - 1

	best := 0.0
	var t Thresholds
	for t1 := 0; t1 < last; t1++ {
		w1 := cumP[t1]
		if w1 == 0 {
			continue
		}
		d1 := cumM[t1]/w1 - muT
		v1 := float64(w1 * float64(d1*d1))
		for t2 := t1 + 1; t2 <= last; t2++ {
			w2 := cumP[t2] - cumP[t1]
			w3 := cumP[last] - cumP[t2]
			if w2 == 0 || w3 == 0 {
				continue
			}
			d2 := (cumM[t2]-cumM[t1])/w2 - muT
			d3 := (cumM[last]-cumM[t2])/w3 - muT
			v := v1 + float64(w2*float64(d2*d2)) + float64(w3*float64(d3*d3))
			if v > best {
				best = v
				t.Low, t.High = t1, t2
			}
		}
	}

	if t.Low == 0 && t.High == 0 {
		sum, n := 0, 0
		for i, v := range p {
			if v > 0 {
				sum += i
				n++
			}
		}
		if n > 0 {
			t.Low = sum / n
			t.High = t.Low
			t.Fallback = true
		}
	}
	return t
}

// Apply maps every sample to LowClass, MidClass or HighClass.
func (t Thresholds) Apply(r *raster.Raster) *raster.Raster {
	out := r.Clone()
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			v := int(r.Value(y, x, 0))
			switch {
			case v <= t.Low:
				out.Set(y, x, 0, LowClass)
			case v <= t.High:
				out.Set(y, x, 0, MidClass)
			default:
				out.Set(y, x, 0, HighClass)
			}
		}
	}
	return out
}

// Otsu segments a gray raster into three classes with OtsuThresholds.
func Otsu(r *raster.Raster) (*raster.Raster, Thresholds, error) {
	if !r.IsGray() {
		return nil, Thresholds{}, fmt.Errorf("%w: otsu needs a gray raster, got %d channels", raster.ErrChannelMismatch, r.Channels())
	}
	h, err := stats.Compute(r, 0)
	if err != nil {
		return nil, Thresholds{}, err
	}
	p, err := stats.Probabilities(h, r.Pixels())
	if err != nil {
		return nil, Thresholds{}, err
	}
	t := OtsuThresholds(p)
	return t.Apply(r), t, nil
}
