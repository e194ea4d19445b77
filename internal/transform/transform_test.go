package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

func grid(t *testing.T, rows [][]uint8) *raster.Raster {
	t.Helper()
	r, err := raster.FromRows(rows)
	require.NoError(t, err)
	return r
}

func rowsOf(r *raster.Raster) [][]uint8 {
	out := make([][]uint8, r.Height())
	for y := range out {
		out[y] = make([]uint8, r.Width())
		for x := range out[y] {
			out[y][x] = r.Value(y, x, 0)
		}
	}
	return out
}

func TestInvert(t *testing.T) {
	r := grid(t, [][]uint8{{0, 100}, {200, 255}})
	out, err := Invert(r)
	require.NoError(t, err)
	assert.True(t, out.IsGray())
	assert.Equal(t, [][]uint8{{255, 155}, {55, 0}}, rowsOf(out))

	c, err := raster.Merge(r, r, r)
	require.NoError(t, err)
	out, err = Invert(c)
	require.NoError(t, err)
	assert.Equal(t, uint8(155), out.Value(0, 1, 2))
}

func TestGrayscaleAndThreshold(t *testing.T) {
	c, err := raster.NewColor(2, 1)
	require.NoError(t, err)
	c.Set(0, 0, 0, 255)
	c.Set(0, 1, 1, 255)

	g, err := Grayscale(c)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{76, 150}}, rowsOf(g))

	b, err := Threshold(c, 100)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 255}}, rowsOf(b))

	b, err = Threshold(g, 76)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{255, 255}}, rowsOf(b))

	_, err = Threshold(g, 300)
	assert.ErrorIs(t, err, raster.ErrInvalidParameter)
}

func TestMirror(t *testing.T) {
	out, err := Mirror(grid(t, [][]uint8{{1, 2, 3}, {4, 5, 6}}))
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{3, 2, 1}, {6, 5, 4}}, rowsOf(out))
}

func TestRotate(t *testing.T) {
	r := grid(t, [][]uint8{{1, 2, 3}, {4, 5, 6}})

	cw, err := Rotate(r, Clockwise)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{4, 1}, {5, 2}, {6, 3}}, rowsOf(cw))

	acw, err := Rotate(r, AntiClockwise)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{3, 6}, {2, 5}, {1, 4}}, rowsOf(acw))

	_, err = Rotate(r, "sideways")
	assert.ErrorIs(t, err, raster.ErrInvalidParameter)
}

func TestCropRegion(t *testing.T) {
	r := grid(t, [][]uint8{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	})

	res, err := CropRegion(r, 1, 1, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{6, 7}, {10, 11}}, rowsOf(res.Raster))
	assert.InDelta(t, 8.5, res.Mean[0], 1e-12)
	assert.InDelta(t, 4.25, res.Variance[0], 1e-12)

	_, err = CropRegion(r, 0, 0, 5, 1)
	assert.ErrorIs(t, err, raster.ErrOutOfRange)
	_, err = CropRegion(r, 2, 0, 2, 1)
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestNamedRegion(t *testing.T) {
	x1, y1, x2, y2, err := NamedRegion("bottom-right", 10, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4, 10, 8}, []int{x1, y1, x2, y2})

	x1, y1, x2, y2, err = NamedRegion("center", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 6, 6}, []int{x1, y1, x2, y2})

	_, _, _, _, err = NamedRegion("middle-ish", 8, 8)
	assert.ErrorIs(t, err, raster.ErrInvalidParameter)
}

func TestCombine(t *testing.T) {
	left := grid(t, [][]uint8{
		{10, 10, 10},
		{10, 10, 10},
		{10, 10, 10},
	})
	right, err := raster.NewColor(1, 1)
	require.NoError(t, err)
	right.Set(0, 0, 0, 200)
	right.Set(0, 0, 1, 100)
	right.Set(0, 0, 2, 50)

	out, err := Combine(left, right, 2)
	require.NoError(t, err)
	require.Equal(t, 8, out.Width())
	require.Equal(t, 3, out.Height())
	require.False(t, out.IsGray())

	assert.Equal(t, uint8(10), out.Value(0, 0, 2), "gray promoted to color")
	assert.Equal(t, uint8(0), out.Value(1, 3, 0), "border is black")
	assert.Equal(t, uint8(0), out.Value(0, 6, 0))
	assert.Equal(t, uint8(200), out.Value(1, 6, 0), "right raster centered in its cell")
	assert.Equal(t, uint8(50), out.Value(1, 6, 2))

	_, err = Combine(left, right, -1)
	assert.ErrorIs(t, err, raster.ErrInvalidParameter)
}

func TestCompare(t *testing.T) {
	a := grid(t, [][]uint8{{0, 0}, {0, 0}})
	b := grid(t, [][]uint8{{0, 5}, {20, 0}})

	res, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalPixels)
	assert.Equal(t, 1, res.PixelsDifferent)
	assert.Equal(t, 0.75, res.SimilarityScore)
	assert.Equal(t, 6.25, res.AverageDiff)
	assert.Equal(t, 20, res.MaxDiff)

	_, err = Compare(a, grid(t, [][]uint8{{1}}))
	assert.ErrorIs(t, err, raster.ErrDimensionMismatch)
}
