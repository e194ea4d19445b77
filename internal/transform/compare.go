package transform

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// DifferenceTolerance is the mean per channel difference above which a pixel
// counts as different.
const DifferenceTolerance = 10

// CompareResult summarizes how two equally shaped rasters differ.
type CompareResult struct {
	SimilarityScore float64 `json:"similarity_score"`
	PixelsDifferent int     `json:"pixels_different"`
	TotalPixels     int     `json:"total_pixels"`
	AverageDiff     float64 `json:"average_diff"`
	MaxDiff         int     `json:"max_diff"`
}

// Compare reports the share of pixels whose mean absolute channel difference
// exceeds DifferenceTolerance, plus the average and maximum difference.
func Compare(a, b *raster.Raster) (*CompareResult, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", raster.ErrDimensionMismatch,
			a.Width(), a.Height(), a.Channels(), b.Width(), b.Height(), b.Channels())
	}

	total := a.Pixels()
	different, maxDiff := 0, 0
	var sum float64
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			d := 0
			for ch := 0; ch < a.Channels(); ch++ {
				c := absDiff(a.Value(y, x, ch), b.Value(y, x, ch))
				d += c
				maxDiff = max(maxDiff, c)
			}
			diff := float64(d) / float64(a.Channels())
			sum += diff
			if diff > DifferenceTolerance {
				different++
			}
		}
	}

	return &CompareResult{
		SimilarityScore: math.Round((1-float64(different)/float64(total))*1000) / 1000,
		PixelsDifferent: different,
		TotalPixels:     total,
		AverageDiff:     math.Round(sum/float64(total)*100) / 100,
		MaxDiff:         maxDiff,
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
