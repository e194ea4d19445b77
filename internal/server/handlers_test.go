package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-edit-mcp/internal/edge"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// writeGrayPNG encodes rows as a gray PNG in a temp directory.
func writeGrayPNG(t *testing.T, rows [][]uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		copy(img.Pix[y*img.Stride:], row)
	}
	return writePNG(t, img)
}

// writeColorPNG encodes a uniformly colored image in a temp directory.
func writeColorPNG(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return f.Name()
}

func diagonalRows() [][]uint8 {
	rows := make([][]uint8, 5)
	for i := range rows {
		rows[i] = make([]uint8, 5)
		rows[i][i] = 200
	}
	return rows
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)
	resp := s.handleRequest(t.Context(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp)
	return resp
}

// decodeResult unwraps the MCP text content into v.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)
	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), v))
}

// decodeRaster turns a base64 PNG back into a raster.
func decodeRaster(t *testing.T, b64 string, channels int) *raster.Raster {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, err := raster.FromImage(img, channels)
	require.NoError(t, err)
	return r
}

func TestHandleToolsCall_Load(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, diagonalRows())

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
		Gray   bool   `json:"gray"`
	}
	decodeResult(t, callTool(t, s, "raster_load", map[string]interface{}{"path": path}), &info)

	assert.Equal(t, 5, info.Width)
	assert.Equal(t, 5, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.True(t, info.Gray)
	assert.Equal(t, 1, s.cache.Len())
}

func TestHandleToolsCall_Histogram(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, diagonalRows())

	var summary struct {
		Channels []struct {
			Mean      float64 `json:"mean"`
			Min       int     `json:"min"`
			Max       int     `json:"max"`
			Histogram []int   `json:"histogram"`
		} `json:"channels"`
	}
	decodeResult(t, callTool(t, s, "raster_histogram", map[string]interface{}{"path": path}), &summary)

	require.Len(t, summary.Channels, 1)
	ch := summary.Channels[0]
	assert.Equal(t, 20, ch.Histogram[0])
	assert.Equal(t, 5, ch.Histogram[200])
	assert.Equal(t, 0, ch.Min)
	assert.Equal(t, 200, ch.Max)
	assert.InDelta(t, 40.0, ch.Mean, 1e-9)
}

func TestHandleToolsCall_Sample(t *testing.T) {
	s := newTestServer(t)
	path := writeColorPNG(t, 4, 3, color.RGBA{255, 128, 64, 255})

	var c struct {
		Value []int  `json:"value"`
		Hex   string `json:"hex"`
	}
	decodeResult(t, callTool(t, s, "raster_sample", map[string]interface{}{"path": path, "row": 2, "col": 3}), &c)
	assert.Equal(t, []int{255, 128, 64}, c.Value)
	assert.Equal(t, "#FF8040", c.Hex)

	resp := callTool(t, s, "raster_sample", map[string]interface{}{"path": path, "row": 3, "col": 0})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestHandleToolsCall_Canny(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, diagonalRows())

	var res struct {
		Operation   string `json:"operation"`
		Width       int    `json:"width"`
		Channels    int    `json:"channels"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
	}
	decodeResult(t, callTool(t, s, "raster_canny", map[string]interface{}{
		"path": path, "threshold": 50, "t1": 30, "t2": 100,
	}), &res)

	assert.Equal(t, "canny", res.Operation)
	assert.Equal(t, 5, res.Width)
	assert.Equal(t, 1, res.Channels)
	assert.Equal(t, "image/png", res.MimeType)

	want := [][]uint8{
		{255, 255, 255, 255, 0},
		{255, 0, 0, 255, 255},
		{255, 0, 0, 0, 255},
		{255, 255, 0, 0, 255},
		{0, 255, 255, 255, 0},
	}
	got := decodeRaster(t, res.ImageBase64, 1)
	for y, row := range want {
		for x, v := range row {
			assert.Equal(t, v, got.Value(y, x, 0), "edge at (%d,%d)", y, x)
		}
	}
	for y := 0; y < got.Height(); y++ {
		for x := 0; x < got.Width(); x++ {
			v := got.Value(y, x, 0)
			assert.True(t, v == 0 || v == edge.Edge)
		}
	}
}

func TestHandleToolsCall_ThresholdWithOutput(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, [][]uint8{{10, 127, 128, 250}})
	out := filepath.Join(t.TempDir(), "out.png")

	var res struct {
		SavedTo     string `json:"saved_to"`
		ImageBase64 string `json:"image_base64"`
	}
	decodeResult(t, callTool(t, s, "raster_threshold", map[string]interface{}{
		"path": path, "value": 128, "output": out,
	}), &res)

	assert.Equal(t, out, res.SavedTo)
	_, err := os.Stat(out)
	require.NoError(t, err)

	got := decodeRaster(t, res.ImageBase64, 1)
	assert.Equal(t, []uint8{0, 0, 255, 255}, []uint8{got.Value(0, 0, 0), got.Value(0, 1, 0), got.Value(0, 2, 0), got.Value(0, 3, 0)})
}

func rowOf(r *raster.Raster) []uint8 {
	out := make([]uint8, r.Width())
	for x := range out {
		out[x] = r.Value(0, x, 0)
	}
	return out
}

func TestHandleToolsCall_ExplicitZeroParams(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, [][]uint8{{0, 10, 100, 200}})

	var res struct {
		ImageBase64 string `json:"image_base64"`
	}
	decodeResult(t, callTool(t, s, "raster_threshold", map[string]interface{}{
		"path": path, "value": 0,
	}), &res)
	assert.Equal(t, []uint8{255, 255, 255, 255}, rowOf(decodeRaster(t, res.ImageBase64, 1)))

	resp := callTool(t, s, "raster_canny", map[string]interface{}{
		"path": writeGrayPNG(t, diagonalRows()), "t1": 0, "t2": 20,
	})
	assert.Nil(t, resp.Error, "t1=0 is a valid low threshold: %+v", resp.Error)
}

func TestHandleToolsCall_OutputReplacesCachedImage(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, [][]uint8{{0, 10, 100, 200}})

	before, err := s.cache.Load(t.Context(), path, imaging.ModeGray)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 10, 100, 200}, rowOf(before))

	var res struct {
		SavedTo string `json:"saved_to"`
	}
	decodeResult(t, callTool(t, s, "raster_invert", map[string]interface{}{
		"path": path, "output": path,
	}), &res)
	assert.Equal(t, path, res.SavedTo)

	after, err := s.cache.Load(t.Context(), path, imaging.ModeGray)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 245, 155, 55}, rowOf(after))
}

func TestHandleToolsCall_Crop(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, [][]uint8{
		{10, 20, 0, 0},
		{30, 40, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	var res struct {
		Width    int       `json:"width"`
		Height   int       `json:"height"`
		X2       int       `json:"x2"`
		Y2       int       `json:"y2"`
		Mean     []float64 `json:"mean"`
		Variance []float64 `json:"variance"`
	}
	decodeResult(t, callTool(t, s, "raster_crop", map[string]interface{}{"path": path, "region": "top-left"}), &res)

	assert.Equal(t, 2, res.Width)
	assert.Equal(t, 2, res.Height)
	assert.Equal(t, 2, res.X2)
	assert.Equal(t, 2, res.Y2)
	require.Len(t, res.Mean, 1)
	assert.InDelta(t, 25.0, res.Mean[0], 1e-9)
	assert.InDelta(t, 125.0, res.Variance[0], 1e-9)

	resp := callTool(t, s, "raster_crop", map[string]interface{}{"path": path, "x1": 0, "y1": 0, "x2": 9, "y2": 2})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestHandleToolsCall_Otsu(t *testing.T) {
	s := newTestServer(t)
	rows := [][]uint8{
		{10, 10, 10, 120, 120, 120, 240, 240, 240},
		{10, 10, 10, 120, 120, 120, 240, 240, 240},
	}
	path := writeGrayPNG(t, rows)

	var res struct {
		T1          int    `json:"t1"`
		T2          int    `json:"t2"`
		Fallback    bool   `json:"fallback"`
		ImageBase64 string `json:"image_base64"`
	}
	decodeResult(t, callTool(t, s, "raster_otsu", map[string]interface{}{"path": path}), &res)
	assert.False(t, res.Fallback)
	assert.True(t, res.T1 >= 10 && res.T1 < 120, "t1 = %d", res.T1)
	assert.True(t, res.T2 >= 120 && res.T2 < 240, "t2 = %d", res.T2)

	got := decodeRaster(t, res.ImageBase64, 1)
	assert.Equal(t, uint8(0), got.Value(0, 0, 0))
	assert.Equal(t, uint8(128), got.Value(0, 4, 0))
	assert.Equal(t, uint8(255), got.Value(1, 8, 0))
}

func TestHandleToolsCall_OtsuRejectsColor(t *testing.T) {
	s := newTestServer(t)
	path := writeColorPNG(t, 3, 3, color.RGBA{1, 2, 3, 255})

	resp := callTool(t, s, "raster_otsu", map[string]interface{}{"path": path, "mode": "color"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestHandleToolsCall_Combine(t *testing.T) {
	s := newTestServer(t)
	left := writeGrayPNG(t, [][]uint8{{1, 2, 3}, {4, 5, 6}})
	right := writeColorPNG(t, 2, 2, color.RGBA{9, 9, 9, 255})

	var res struct {
		Width    int `json:"width"`
		Height   int `json:"height"`
		Channels int `json:"channels"`
	}
	decodeResult(t, callTool(t, s, "raster_combine", map[string]interface{}{
		"left": left, "right": right, "border": 1,
	}), &res)

	assert.Equal(t, 7, res.Width)
	assert.Equal(t, 2, res.Height)
	assert.Equal(t, 3, res.Channels)
}

func TestHandleToolsCall_Compare(t *testing.T) {
	s := newTestServer(t)
	a := writeColorPNG(t, 4, 4, color.RGBA{100, 100, 100, 255})
	b := writeColorPNG(t, 4, 4, color.RGBA{100, 100, 100, 255})

	var res struct {
		SimilarityScore float64 `json:"similarity_score"`
		PixelsDifferent int     `json:"pixels_different"`
		TotalPixels     int     `json:"total_pixels"`
	}
	decodeResult(t, callTool(t, s, "raster_compare", map[string]interface{}{"path1": a, "path2": b}), &res)
	assert.Equal(t, 1.0, res.SimilarityScore)
	assert.Equal(t, 0, res.PixelsDifferent)
	assert.Equal(t, 16, res.TotalPixels)

	small := writeColorPNG(t, 2, 2, color.RGBA{100, 100, 100, 255})
	resp := callTool(t, s, "raster_compare", map[string]interface{}{"path1": a, "path2": small})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)
	path := writeGrayPNG(t, diagonalRows())

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantCode int
	}{
		{"unknown tool", "raster_unknown", map[string]interface{}{"path": path}, -32602},
		{"missing path", "raster_invert", map[string]interface{}{}, -32602},
		{"bad mode", "raster_invert", map[string]interface{}{"path": path, "mode": "cmyk"}, -32602},
		{"even median kernel", "raster_median", map[string]interface{}{"path": path, "kernel": 4}, -32602},
		{"bad rotation", "raster_rotate", map[string]interface{}{"path": path, "rotation": "sideways"}, -32602},
		{"missing file", "raster_copy", map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.png")}, -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(t.Context(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestExecuteTool_EveryOperation(t *testing.T) {
	s := newTestServer(t)
	gray := writeGrayPNG(t, diagonalRows())
	col := writeColorPNG(t, 6, 5, color.RGBA{200, 40, 90, 255})

	for _, tool := range GetToolDefinitions() {
		switch tool.Name {
		case "raster_load", "raster_histogram", "raster_sample", "raster_dominant_colors",
			"raster_crop", "raster_combine", "raster_compare":
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			_, err := s.ExecuteTool(t.Context(), tool.Name, json.RawMessage(`{"path":"`+gray+`"}`))
			require.NoError(t, err)
			if tool.Name == "raster_otsu" {
				return
			}
			_, err = s.ExecuteTool(t.Context(), tool.Name, json.RawMessage(`{"path":"`+col+`"}`))
			require.NoError(t, err)
		})
	}
}
