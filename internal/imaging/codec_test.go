package imaging

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/storage"
)

func TestEncode(t *testing.T) {
	r, err := raster.FromRows([][]uint8{{0, 255}, {128, 64}})
	require.NoError(t, err)

	result, err := Encode(r)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Width)
	assert.Equal(t, 1, result.Channels)
	assert.Equal(t, "image/png", result.MimeType)

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	back, err := raster.FromImage(img, raster.GrayChannels)
	require.NoError(t, err)
	assert.Equal(t, uint8(128), back.Value(1, 0, 0))
}

func TestSave_RoundTrip(t *testing.T) {
	src, err := raster.FromImage(createPatternImage(6, 4), raster.ColorChannels)
	require.NoError(t, err)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Save(src, path))

		back, err := NewCache(storage.FileSource{}, 0).Load(t.Context(), path, ModeColor)
		require.NoError(t, err, name)
		require.True(t, src.SameShape(back))
		for y := 0; y < 4; y++ {
			for x := 0; x < 6; x++ {
				for ch := 0; ch < 3; ch++ {
					assert.Equal(t, src.Value(y, x, ch), back.Value(y, x, ch), "%s (%d,%d,%d)", name, y, x, ch)
				}
			}
		}
	}
}

func TestSave_UnknownExtension(t *testing.T) {
	r, err := raster.NewGray(2, 2)
	require.NoError(t, err)
	assert.Error(t, Save(r, filepath.Join(t.TempDir(), "out.xyz")))
}

func TestDecode_Garbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte{1, 2, 3}), 0)
	assert.Error(t, err)
}
