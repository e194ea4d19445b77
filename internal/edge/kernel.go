package edge

import (
	"fmt"

	"github.com/anthonynsimon/bild/convolution"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// GaussianSize is the side of the smoothing kernel.
const GaussianSize = 5

// SobelSize is the side of the gradient kernels.
const SobelSize = 3

// GaussianKernel returns the 5x5 binomial approximation of a Gaussian with
// unit variance: the outer product of [1 4 6 4 1] with itself, divided by 256.
//
// Every weight is a dyadic fraction, so smoothing results are exact.
func GaussianKernel() *convolution.Kernel {
	row := make([]int, GaussianSize)
	sum := 0
	for i := range row {
		row[i] = combin.Binomial(GaussianSize-1, i)
		sum += row[i]
	}
	k := convolution.NewKernel(GaussianSize, GaussianSize)
	norm := float64(sum * sum)
	for y := 0; y < GaussianSize; y++ {
		for x := 0; x < GaussianSize; x++ {
			k.Matrix[y*GaussianSize+x] = float64(row[y]*row[x]) / norm
		}
	}
	return k
}

// SobelX returns the horizontal derivative kernel
//
//	-1 0 1
//	-2 0 2
//	-1 0 1
func SobelX() *convolution.Kernel {
	return kernelFromRows([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
}

// SobelY returns the vertical derivative kernel, the transpose of SobelX.
func SobelY() *convolution.Kernel {
	return kernelFromRows([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
}

func kernelFromRows(rows [][]float64) *convolution.Kernel {
	k := convolution.NewKernel(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(k.Matrix[y*k.Width:], row)
	}
	return k
}

// ApplyKernel correlates every channel of r with the square, odd sized kernel
// k. Only positions whose whole window lies inside the raster are computed,
// i.e. rows and columns in [size/2, dim-size/2); every other sample stays 0.
// Pad the input first to cover the full extent.
func ApplyKernel(r *raster.Raster, k convolution.Matrix) (*raster.FloatRaster, error) {
	size := k.MaxX()
	if size <= 0 || size != k.MaxY() || size%2 == 0 {
		return nil, fmt.Errorf("%w: kernel %dx%d is not square with odd side", raster.ErrInvalidParameter, k.MaxX(), k.MaxY())
	}
	out, err := raster.NewFloat(r.Width(), r.Height(), r.Channels())
	if err != nil {
		return nil, err
	}

	half := size / 2
	weights := make([]float64, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			weights[i*size+j] = k.At(j, i)
		}
	}

	for ch := 0; ch < r.Channels(); ch++ {
		plane := out.Plane(ch)
		for y := half; y < r.Height()-half; y++ {
			for x := half; x < r.Width()-half; x++ {
				sum := 0.0
				for i := 0; i < size; i++ {
					for j := 0; j < size; j++ {
						sum += float64(float64(r.Value(y+i-half, x+j-half, ch)) * weights[i*size+j])
					}
				}
				plane.Set(y, x, sum)
			}
		}
	}
	return out, nil
}

// Smooth blurs r with GaussianKernel. The raster is mirror padded first so
// the output has the input's extent, then every sample is rounded half to
// even and saturated to 8 bits.
func Smooth(r *raster.Raster) (*raster.Raster, error) {
	padded, err := raster.MirrorPad(r, GaussianSize)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}
	f, err := ApplyKernel(padded, GaussianKernel())
	if err != nil {
		return nil, err
	}
	p := raster.PadSize(GaussianSize)
	return raster.Crop(f.Saturate(), p, p, r.Height(), r.Width())
}
