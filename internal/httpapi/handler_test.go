package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/server"
	"github.com/ironsheep/image-edit-mcp/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	log := zerolog.New(io.Discard)
	srv := server.New(imaging.NewCache(storage.FileSource{}, 0), log)
	return NewHandler(srv, log, Options{})
}

func writeGrayPNG(t *testing.T, w, h int, v uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func post(t *testing.T, h http.Handler, tool, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/"+tool, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, server.Version, body["version"])
}

func TestListTools(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/tools", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Tools []server.Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Tools, len(server.GetToolDefinitions()))
}

func TestCallTool_Invert(t *testing.T) {
	h := newTestHandler(t)
	path := writeGrayPNG(t, 3, 2, 55)

	w := post(t, h, "raster_invert", fmt.Sprintf(`{"path":%q}`, path))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Operation   string `json:"operation"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Channels    int    `json:"channels"`
		ImageBase64 []byte `json:"image_base64"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "invert", res.Operation)
	assert.Equal(t, 3, res.Width)
	assert.Equal(t, 2, res.Height)
	assert.Equal(t, 1, res.Channels)

	img, err := png.Decode(bytes.NewReader(res.ImageBase64))
	require.NoError(t, err)
	r, err := raster.FromImage(img, raster.GrayChannels)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), r.Value(1, 2, 0))
}

func TestCallTool_Errors(t *testing.T) {
	h := newTestHandler(t)
	path := writeGrayPNG(t, 4, 4, 10)

	tests := []struct {
		name string
		tool string
		body string
		want int
	}{
		{"unknown tool", "raster_nope", `{}`, http.StatusNotFound},
		{"malformed body", "raster_copy", `{"path":`, http.StatusBadRequest},
		{"even kernel", "raster_median", fmt.Sprintf(`{"path":%q,"kernel":2}`, path), http.StatusBadRequest},
		{"otsu on color", "raster_otsu", fmt.Sprintf(`{"path":%q,"mode":"color"}`, path), http.StatusBadRequest},
		{"missing file", "raster_copy", `{"path":"/does/not/exist.png"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.tool, tt.body)
			assert.Equal(t, tt.want, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, http.StatusText(tt.want), body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestCallTool_BodyTooLarge(t *testing.T) {
	log := zerolog.New(io.Discard)
	srv := server.New(imaging.NewCache(storage.FileSource{}, 0), log)
	h := NewHandler(srv, log, Options{MaxBodyBytes: 16})

	w := post(t, h, "raster_copy", `{"path":"/a/very/long/path/to/an/image.png"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCallTool_FileRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Rename(writeGrayPNG(t, 2, 2, 55), filepath.Join(root, "in.png")))
	outside := writeGrayPNG(t, 2, 2, 55)

	log := zerolog.New(io.Discard)
	srv := server.New(imaging.NewCache(storage.FileSource{}, 0), log)
	require.NoError(t, srv.RestrictFiles(root))
	h := NewHandler(srv, log, Options{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"inside root", `{"path":"in.png"}`, http.StatusOK},
		{"outside root", fmt.Sprintf(`{"path":%q}`, outside), http.StatusForbidden},
		{"escapes root", `{"path":"../../etc/passwd"}`, http.StatusForbidden},
		{"output outside root", fmt.Sprintf(`{"path":"in.png","output":%q}`, filepath.Join(filepath.Dir(outside), "out.png")), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, "raster_invert", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
	_, err := os.Stat(filepath.Join(filepath.Dir(outside), "out.png"))
	assert.True(t, os.IsNotExist(err))
}

type failingExecutor struct{ err error }

func (f failingExecutor) ExecuteTool(context.Context, string, json.RawMessage) (interface{}, error) {
	return nil, f.err
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", raster.ErrInvalidParameter), http.StatusBadRequest},
		{fmt.Errorf("x: %w", server.ErrUnknownTool), http.StatusNotFound},
		{fmt.Errorf("x: %w", server.ErrPathNotAllowed), http.StatusForbidden},
		{fmt.Errorf("x: %w", os.ErrNotExist), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(failingExecutor{tt.err}, zerolog.New(io.Discard), Options{})
			w := post(t, h, "raster_copy", `{}`)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
